// Package otel reports requests and resolver calls as OpenTelemetry spans.
package otel

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/graph-gophers/graphql-fn/errors"
	"github.com/graph-gophers/graphql-fn/trace/tracer"
)

const instrumentationName = "github.com/graph-gophers/graphql-fn"

// DefaultTracer uses the global tracer provider.
func DefaultTracer() *Tracer {
	return &Tracer{Tracer: otel.Tracer(instrumentationName)}
}

// Tracer starts spans on Tracer. Fields read from the parent by the default resolver get no
// span.
type Tracer struct {
	Tracer oteltrace.Tracer
}

func (t *Tracer) TraceQuery(ctx context.Context, req tracer.Request) (context.Context, tracer.QueryFinishFunc) {
	attrs := []attribute.KeyValue{attribute.String("graphql.query", req.Query)}
	if req.ID != "" {
		attrs = append(attrs, attribute.String("graphql.request_id", req.ID))
	}
	if req.OperationName != "" {
		attrs = append(attrs, attribute.String("graphql.operationName", req.OperationName))
	}
	if len(req.Variables) != 0 {
		attrs = append(attrs, attribute.String("graphql.variables", encode(req.Variables)))
	}

	ctx, span := t.Tracer.Start(ctx, "GraphQL Request", oteltrace.WithAttributes(attrs...))
	return ctx, func(errs []*errors.QueryError) { end(span, errs) }
}

func (t *Tracer) TraceField(ctx context.Context, f tracer.Field) (context.Context, tracer.FieldFinishFunc) {
	if !f.Bound {
		return ctx, func(*errors.QueryError) {}
	}

	attrs := []attribute.KeyValue{
		attribute.String("graphql.type", f.TypeName),
		attribute.String("graphql.field", f.FieldName),
		attribute.String("graphql.path", f.PathString()),
	}
	for name, value := range f.Args {
		attrs = append(attrs, attribute.String("graphql.args."+name, encode(value)))
	}

	ctx, span := t.Tracer.Start(ctx, "Field: "+f.Label(), oteltrace.WithAttributes(attrs...))
	return ctx, func(err *errors.QueryError) {
		if err == nil {
			span.End()
			return
		}
		end(span, []*errors.QueryError{err})
	}
}

func (t *Tracer) TraceValidation(ctx context.Context) tracer.ValidationFinishFunc {
	_, span := t.Tracer.Start(ctx, "GraphQL Validate")
	return func(errs []*errors.QueryError) { end(span, errs) }
}

func end(span oteltrace.Span, errs []*errors.QueryError) {
	if len(errs) != 0 {
		span.SetStatus(codes.Error, tracer.Summary(errs))
		if kind := errs[0].Rule; kind != "" {
			span.SetAttributes(attribute.String("graphql.error.kind", kind))
		}
	}
	span.End()
}

// encode renders argument and variable values as JSON, falling back to fmt for values JSON
// cannot represent.
func encode(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
