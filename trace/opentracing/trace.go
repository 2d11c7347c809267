// Package opentracing reports requests and resolver calls as OpenTracing spans on the global
// tracer.
package opentracing

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/opentracing/opentracing-go/log"

	"github.com/graph-gophers/graphql-fn/errors"
	"github.com/graph-gophers/graphql-fn/trace/tracer"
)

const (
	requestSpan    = "GraphQL request"
	validationSpan = "Validate Query"
)

// Tracer starts one span per request and one child span per bound resolver call. Fields read
// from the parent by the default resolver get no span.
type Tracer struct{}

func (Tracer) TraceQuery(ctx context.Context, req tracer.Request) (context.Context, tracer.QueryFinishFunc) {
	span, ctx := opentracing.StartSpanFromContext(ctx, requestSpan, opentracing.Tags{
		"graphql.query": req.Query,
	})
	if req.ID != "" {
		span.SetTag("graphql.request_id", req.ID)
	}
	if req.OperationName != "" {
		span.SetTag("graphql.operationName", req.OperationName)
	}
	if len(req.Variables) != 0 {
		span.LogFields(log.Object("graphql.variables", req.Variables))
	}
	return ctx, func(errs []*errors.QueryError) { finish(span, errs) }
}

func (Tracer) TraceField(ctx context.Context, f tracer.Field) (context.Context, tracer.FieldFinishFunc) {
	if !f.Bound {
		return ctx, func(*errors.QueryError) {}
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, f.Label(), opentracing.Tags{
		"graphql.type":  f.TypeName,
		"graphql.field": f.FieldName,
		"graphql.path":  f.PathString(),
	})
	for name, value := range f.Args {
		span.SetTag("graphql.args."+name, value)
	}
	return ctx, func(err *errors.QueryError) {
		if err != nil {
			finish(span, []*errors.QueryError{err})
			return
		}
		span.Finish()
	}
}

func (Tracer) TraceValidation(ctx context.Context) tracer.ValidationFinishFunc {
	span, _ := opentracing.StartSpanFromContext(ctx, validationSpan)
	return func(errs []*errors.QueryError) { finish(span, errs) }
}

func finish(span opentracing.Span, errs []*errors.QueryError) {
	if len(errs) != 0 {
		ext.Error.Set(span, true)
		span.SetTag("graphql.error", tracer.Summary(errs))
		if kind := errs[0].Rule; kind != "" {
			span.SetTag("graphql.error.kind", kind)
		}
	}
	span.Finish()
}
