package context

import (
	"context"

	"github.com/graph-gophers/graphql-fn/resolvers"
)

type graphqlKeyType int

const (
	graphqlFieldKey graphqlKeyType = iota
	requestIDKey
)

// WithField returns a copy of ctx carrying the field being resolved so it can later be
// retrieved using Field.
func WithField(ctx context.Context, info *resolvers.Info) context.Context {
	return context.WithValue(ctx, graphqlFieldKey, info)
}

// Field returns the field stored in ctx, if any.
func Field(ctx context.Context) (info *resolvers.Info, found bool) {
	if ctx == nil {
		return
	}

	if v, ok := ctx.Value(graphqlFieldKey).(*resolvers.Info); ok {
		return v, true
	}

	return
}

// WithRequestID returns a copy of ctx carrying the request's ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
