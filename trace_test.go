package graphql_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/jaeger-client-go"

	graphql "github.com/graph-gophers/graphql-fn"
	"github.com/graph-gophers/graphql-fn/resolvers"
	tracing "github.com/graph-gophers/graphql-fn/trace/opentracing"
)

func TestOpenTracingSpans(t *testing.T) {
	mt := mocktracer.New()
	opentracing.SetGlobalTracer(mt)
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	engine := graphql.MustParseSchema(socialSchema, resolvers.Map{
		"Query": {
			"me": resolvers.Value(&user{ID: 1, Name: "Ana"}),
		},
		"User": {
			"email": func(context.Context, resolvers.Params) (interface{}, error) {
				return nil, fmt.Errorf("hidden")
			},
		},
	}, graphql.Tracer(tracing.Tracer{}))

	resp := engine.Handle(context.Background(), `query Me { me { name email } }`, nil, "Me")
	require.Len(t, resp.Errors, 1)

	spans := map[string]*mocktracer.MockSpan{}
	for _, span := range mt.FinishedSpans() {
		spans[span.OperationName] = span
	}
	require.Contains(t, spans, "GraphQL request")
	require.Contains(t, spans, "Validate Query")
	require.Contains(t, spans, "Query.me")
	require.Contains(t, spans, "User.email")
	// name is read from the parent without a bound resolver, so it is not traced
	assert.NotContains(t, spans, "User.name")

	assert.Equal(t, true, spans["User.email"].Tag("error"))
	assert.Equal(t, spans["GraphQL request"].SpanContext.SpanID, spans["Query.me"].ParentID)
}

func TestJaegerSpans(t *testing.T) {
	reporter := jaeger.NewInMemoryReporter()
	tracer, closer := jaeger.NewTracer(t.Name(), jaeger.NewConstSampler(true), reporter)
	opentracing.SetGlobalTracer(tracer)
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	engine := helloEngine(t, resolvers.Value("World"), graphql.Tracer(tracing.Tracer{}), graphql.RequestIDExtension())
	resp := engine.Handle(context.Background(), `{ hello }`, nil, "")
	require.Empty(t, resp.Errors)

	// Closing resets the in-memory reporter, so read the spans first.
	spans := map[string]*jaeger.Span{}
	for _, s := range reporter.GetSpans() {
		span := s.(*jaeger.Span)
		spans[span.OperationName()] = span
	}
	require.NoError(t, closer.Close())
	require.Contains(t, spans, "GraphQL request")
	require.Contains(t, spans, "Query.hello")

	// The span carries the id returned to the client.
	tagged, ok := spans["GraphQL request"].Tags()["graphql.request_id"].(string)
	require.True(t, ok)
	assert.Equal(t, resp.Extensions["requestId"], tagged)
	_, err := ksuid.Parse(tagged)
	assert.NoError(t, err)

	assert.Equal(t, spans["GraphQL request"].SpanContext().SpanID(), spans["Query.hello"].SpanContext().ParentID())
}
