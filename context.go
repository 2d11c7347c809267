package graphql

import (
	"context"

	gcontext "github.com/graph-gophers/graphql-fn/internal/context"
	"github.com/graph-gophers/graphql-fn/resolvers"
)

// FieldContext returns the field a resolver was called for. It reports false outside of a
// resolver call.
func FieldContext(ctx context.Context) (*resolvers.Info, bool) {
	return gcontext.Field(ctx)
}
