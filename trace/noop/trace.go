// Package noop defines a tracer that records nothing.
package noop

import (
	"context"

	"github.com/graph-gophers/graphql-fn/errors"
	"github.com/graph-gophers/graphql-fn/trace/tracer"
)

// Tracer is the engine's default tracer.
type Tracer struct{}

func (Tracer) TraceQuery(ctx context.Context, _ tracer.Request) (context.Context, tracer.QueryFinishFunc) {
	return ctx, ignoreErrors
}

func (Tracer) TraceField(ctx context.Context, _ tracer.Field) (context.Context, tracer.FieldFinishFunc) {
	return ctx, ignoreError
}

func (Tracer) TraceValidation(context.Context) tracer.ValidationFinishFunc {
	return ignoreErrors
}

func ignoreErrors([]*errors.QueryError) {}

func ignoreError(*errors.QueryError) {}
