package graphql

import (
	"context"

	"github.com/graph-gophers/graphql-fn/errors"
)

// Exec serves one request. Middleware may replace req before passing it on but must not
// mutate the one it was given.
type Exec func(ctx context.Context, req *Request) *Response

// Middleware wraps the next Exec in the chain.
type Middleware func(next Exec) Exec

// ParseErrorsMiddleware passes every response's errors through rewrite.
func ParseErrorsMiddleware(rewrite func([]*errors.QueryError) []*errors.QueryError) Middleware {
	return func(next Exec) Exec {
		return func(ctx context.Context, req *Request) *Response {
			resp := next(ctx, req)
			resp.Errors = rewrite(resp.Errors)
			return resp
		}
	}
}

// InspectInputMiddleware answers with inspect's response when it returns one and otherwise
// continues the chain. inspect runs before parsing.
func InspectInputMiddleware(inspect func(ctx context.Context, req *Request) *Response) Middleware {
	return func(next Exec) Exec {
		return func(ctx context.Context, req *Request) *Response {
			if resp := inspect(ctx, req); resp != nil {
				return resp
			}
			return next(ctx, req)
		}
	}
}
