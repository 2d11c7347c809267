package opentracing_test

import (
	"context"
	"testing"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graph-gophers/graphql-fn/errors"
	gqlopentracing "github.com/graph-gophers/graphql-fn/trace/opentracing"
	"github.com/graph-gophers/graphql-fn/trace/tracer"
)

func TestInterfaceImplementation(t *testing.T) {
	var _ tracer.ValidationTracer = gqlopentracing.Tracer{}
	var _ tracer.Tracer = gqlopentracing.Tracer{}
}

func TestSpans(t *testing.T) {
	mt := mocktracer.New()
	prev := opentracing.GlobalTracer()
	opentracing.SetGlobalTracer(mt)
	defer opentracing.SetGlobalTracer(prev)

	tr := gqlopentracing.Tracer{}
	ctx, finishQuery := tr.TraceQuery(context.Background(), tracer.Request{
		ID:            "2Lk9",
		Query:         "query Orders { orders { total } }",
		OperationName: "Orders",
		Variables:     map[string]interface{}{"first": 1},
	})

	tr.TraceValidation(ctx)(nil)

	_, finishField := tr.TraceField(ctx, tracer.Field{
		TypeName:  "Query",
		FieldName: "orders",
		Path:      []interface{}{"orders"},
		Args:      map[string]interface{}{"first": 1},
		Bound:     true,
	})
	finishField(errors.Kindf(errors.ResolverError, "store offline"))

	_, finishDefault := tr.TraceField(ctx, tracer.Field{TypeName: "Order", FieldName: "total"})
	finishDefault(nil)

	finishQuery([]*errors.QueryError{{Message: "one"}, {Message: "two"}})

	spans := mt.FinishedSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, "Validate Query", spans[0].OperationName)
	assert.Nil(t, spans[0].Tag("error"))

	field := spans[1]
	assert.Equal(t, "Query.orders", field.OperationName)
	assert.Equal(t, "orders", field.Tag("graphql.path"))
	assert.Equal(t, 1, field.Tag("graphql.args.first"))
	assert.Equal(t, true, field.Tag("error"))
	assert.Equal(t, errors.ResolverError, field.Tag("graphql.error.kind"))

	query := spans[2]
	assert.Equal(t, "GraphQL request", query.OperationName)
	assert.Equal(t, "2Lk9", query.Tag("graphql.request_id"))
	assert.Equal(t, "Orders", query.Tag("graphql.operationName"))
	assert.Equal(t, "one (+1 more)", query.Tag("graphql.error"))
	assert.Nil(t, query.Tag("graphql.error.kind"))
	assert.Equal(t, query.SpanContext.SpanID, field.ParentID)
}
