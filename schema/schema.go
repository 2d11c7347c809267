// Package schema holds the type registry an engine executes against and the builder used to
// assemble it once at process start.
package schema

import (
	"fmt"

	"github.com/graph-gophers/graphql-fn/types"
)

// DuplicateTypeError is returned when a type name is registered twice.
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("DuplicateTypeError: type %q is already registered", e.Name)
}

// UnknownTypeError is returned when a type name is not registered.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("UnknownTypeError: type %q is not registered", e.Name)
}

// Schema is the type registry. It is populated by a Builder and read-only afterwards, so it
// is safe for concurrent use by any number of requests.
type Schema struct {
	types    map[string]types.NamedType
	order    []string
	query    *types.ObjectTypeDefinition
	mutation *types.ObjectTypeDefinition
}

// New returns a registry holding only the built-in scalars.
func New() *Schema {
	s := &Schema{types: make(map[string]types.NamedType)}
	for _, scalar := range types.BuiltinScalars() {
		if err := s.Register(scalar); err != nil {
			panic(err)
		}
	}
	return s
}

// Register adds a named type.
func (s *Schema) Register(t types.NamedType) error {
	name := t.TypeName()
	if _, ok := s.types[name]; ok {
		return &DuplicateTypeError{Name: name}
	}
	s.types[name] = t
	s.order = append(s.order, name)
	return nil
}

// Resolve returns the named type or an *UnknownTypeError.
func (s *Schema) Resolve(name string) (types.NamedType, error) {
	t, ok := s.types[name]
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}
	return t, nil
}

// Lookup returns the named type, or nil when it is not registered.
func (s *Schema) Lookup(name string) types.NamedType {
	return s.types[name]
}

// Types returns all named types in registration order.
func (s *Schema) Types() []types.NamedType {
	list := make([]types.NamedType, len(s.order))
	for i, name := range s.order {
		list[i] = s.types[name]
	}
	return list
}

// Object returns the object type with the given name, or nil.
func (s *Schema) Object(name string) *types.ObjectTypeDefinition {
	obj, _ := s.types[name].(*types.ObjectTypeDefinition)
	return obj
}

// Query returns the query root type.
func (s *Schema) Query() *types.ObjectTypeDefinition {
	return s.query
}

// Mutation returns the mutation root type, or nil if the schema has none.
func (s *Schema) Mutation() *types.ObjectTypeDefinition {
	return s.mutation
}

// IsAssignable reports whether a value of type actual can be used where expected is required.
func (s *Schema) IsAssignable(actual, expected types.Type) bool {
	return types.IsAssignable(actual, expected)
}
