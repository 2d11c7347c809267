package resolvers

import (
	"context"
	"fmt"

	"github.com/graph-gophers/graphql-fn/schema"
)

// Info describes the field being resolved.
type Info struct {
	TypeName  string
	FieldName string
	Alias     string
	Path      []interface{}
	Variables map[string]interface{}
	Root      interface{}
}

// Params is everything a resolver receives besides the context.
type Params struct {
	Parent interface{}
	Args   map[string]interface{}
	Info   Info
}

// Func produces the value of one field. It may block; the engine waits for it unless the
// request's context is done first.
type Func func(ctx context.Context, p Params) (interface{}, error)

// Map is a resolver map keyed by type name, then field name.
type Map map[string]map[string]Func

// Value returns a Func that always yields v.
func Value(v interface{}) Func {
	return func(context.Context, Params) (interface{}, error) {
		return v, nil
	}
}

// UndeclaredFieldError is returned when a resolver is bound to a field the schema does not declare.
type UndeclaredFieldError struct {
	TypeName  string
	FieldName string
}

func (e *UndeclaredFieldError) Error() string {
	return fmt.Sprintf("resolver bound to undeclared field %s.%s", e.TypeName, e.FieldName)
}

type fieldKey struct {
	typeName  string
	fieldName string
}

// Registry maps (type name, field name) pairs to resolvers. It is written at startup and
// only read once frozen, so lookups take no lock.
type Registry struct {
	funcs  map[fieldKey]Func
	frozen bool
}

func NewRegistry() *Registry {
	return &Registry{funcs: make(map[fieldKey]Func)}
}

// FromMap builds a registry from a resolver map.
func FromMap(m Map) (*Registry, error) {
	r := NewRegistry()
	for typeName, fields := range m {
		for fieldName, fn := range fields {
			if err := r.Bind(typeName, fieldName, fn); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// Bind registers fn for the field. Binding the same field twice, or binding after Freeze, fails.
func (r *Registry) Bind(typeName, fieldName string, fn Func) error {
	if fn == nil {
		return fmt.Errorf("resolver for %s.%s is nil", typeName, fieldName)
	}
	if r.frozen {
		return fmt.Errorf("cannot bind %s.%s: registry is frozen", typeName, fieldName)
	}
	key := fieldKey{typeName, fieldName}
	if _, ok := r.funcs[key]; ok {
		return fmt.Errorf("resolver for %s.%s is already bound", typeName, fieldName)
	}
	r.funcs[key] = fn
	return nil
}

// Lookup returns the resolver bound to the field.
func (r *Registry) Lookup(typeName, fieldName string) (Func, bool) {
	if r == nil {
		return nil, false
	}
	fn, ok := r.funcs[fieldKey{typeName, fieldName}]
	return fn, ok
}

// Len returns the number of bound resolvers.
func (r *Registry) Len() int {
	return len(r.funcs)
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Check verifies that every binding targets a field declared in s.
func (r *Registry) Check(s *schema.Schema) error {
	for key := range r.funcs {
		obj := s.Object(key.typeName)
		if obj == nil || obj.Fields.Get(key.fieldName) == nil {
			return &UndeclaredFieldError{TypeName: key.typeName, FieldName: key.fieldName}
		}
	}
	return nil
}
