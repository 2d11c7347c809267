// Package tracer defines the hooks the engine reports requests and resolver calls to.
package tracer

import (
	"context"
	"fmt"
	"strings"

	"github.com/graph-gophers/graphql-fn/errors"
)

type QueryFinishFunc = func([]*errors.QueryError)
type FieldFinishFunc = func(*errors.QueryError)
type ValidationFinishFunc = func([]*errors.QueryError)

// Request describes a request that passed parsing.
type Request struct {
	ID            string
	Query         string
	OperationName string
	Variables     map[string]interface{}
}

// Field describes one resolver call.
type Field struct {
	TypeName  string
	FieldName string
	Path      []interface{}
	Args      map[string]interface{}
	// Bound is false when the field is read from its parent value by the default resolver.
	Bound bool
}

// Label names the field as Type.field.
func (f Field) Label() string {
	return f.TypeName + "." + f.FieldName
}

// PathString renders the response path, e.g. "users.2.name".
func (f Field) PathString() string {
	parts := make([]string, len(f.Path))
	for i, p := range f.Path {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ".")
}

// Tracer is notified when a request starts and when a resolver runs.
type Tracer interface {
	TraceQuery(ctx context.Context, req Request) (context.Context, QueryFinishFunc)
	TraceField(ctx context.Context, f Field) (context.Context, FieldFinishFunc)
}

// ValidationTracer is implemented by tracers that also want a span around validation.
type ValidationTracer interface {
	TraceValidation(ctx context.Context) ValidationFinishFunc
}

// Summary condenses errs into a single line for span attributes. It is empty for no errors.
func Summary(errs []*errors.QueryError) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Message
	default:
		return fmt.Sprintf("%s (+%d more)", errs[0].Message, len(errs)-1)
	}
}
