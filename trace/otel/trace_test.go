package otel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/graph-gophers/graphql-fn/errors"
	otelgraphql "github.com/graph-gophers/graphql-fn/trace/otel"
	"github.com/graph-gophers/graphql-fn/trace/tracer"
)

func TestInterfaceImplementation(t *testing.T) {
	var _ tracer.ValidationTracer = &otelgraphql.Tracer{}
	var _ tracer.Tracer = &otelgraphql.Tracer{}
}

func TestTraceWithGlobalProvider(t *testing.T) {
	for _, tr := range []*otelgraphql.Tracer{
		otelgraphql.DefaultTracer(),
		{Tracer: otel.Tracer("orders")},
	} {
		ctx, finish := tr.TraceQuery(context.Background(), tracer.Request{
			ID:        "2Lk9",
			Query:     "{ orders { total } }",
			Variables: map[string]interface{}{"ch": make(chan int)},
		})
		assert.NotNil(t, oteltrace.SpanFromContext(ctx))

		tr.TraceValidation(ctx)(nil)

		fieldCtx, finishField := tr.TraceField(ctx, tracer.Field{
			TypeName:  "Query",
			FieldName: "orders",
			Path:      []interface{}{"orders"},
			Args:      map[string]interface{}{"status": []string{"OPEN"}},
			Bound:     true,
		})
		assert.NotNil(t, oteltrace.SpanFromContext(fieldCtx))
		finishField(errors.Kindf(errors.ResolverError, "store offline"))

		finish([]*errors.QueryError{{Message: "store offline"}})
	}
}

func TestDefaultResolvedFieldsHaveNoSpan(t *testing.T) {
	tr := otelgraphql.DefaultTracer()
	ctx := context.Background()
	got, finish := tr.TraceField(ctx, tracer.Field{TypeName: "Order", FieldName: "total"})
	assert.Equal(t, ctx, got)
	finish(nil)
}
