package types

// ObjectTypeDefinition represents a GraphQL ObjectTypeDefinition.
//
//	type FooObject {
//		foo: String
//	}
//
// https://spec.graphql.org/draft/#sec-Objects
type ObjectTypeDefinition struct {
	Name   string
	Fields FieldsDefinition
	Desc   string
}

func (*ObjectTypeDefinition) Kind() string          { return KindObject }
func (t *ObjectTypeDefinition) String() string      { return t.Name }
func (t *ObjectTypeDefinition) TypeName() string    { return t.Name }
func (t *ObjectTypeDefinition) Description() string { return t.Desc }

// FieldDefinition is a representation of a GraphQL FieldDefinition.
//
// https://spec.graphql.org/draft/#FieldDefinition
type FieldDefinition struct {
	Name      string
	Arguments ArgumentsDefinition
	Type      Type
	Desc      string
}

// FieldsDefinition is an ordered list of field definitions.
type FieldsDefinition []*FieldDefinition

// Get returns a FieldDefinition in a FieldsDefinition by name or nil if not found.
func (l FieldsDefinition) Get(name string) *FieldDefinition {
	for _, f := range l {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Names returns a slice of FieldDefinition names.
func (l FieldsDefinition) Names() []string {
	names := make([]string, len(l))
	for i, f := range l {
		names[i] = f.Name
	}
	return names
}

// InputValueDefinition is a representation of a GraphQL argument definition.
//
// https://spec.graphql.org/draft/#InputValueDefinition
type InputValueDefinition struct {
	Name       string
	Type       Type
	Default    interface{}
	HasDefault bool
	Desc       string
}

// ArgumentsDefinition is an ordered list of argument definitions.
type ArgumentsDefinition []*InputValueDefinition

// Get returns an InputValueDefinition in an ArgumentsDefinition by name or nil if not found.
func (a ArgumentsDefinition) Get(name string) *InputValueDefinition {
	for _, inputValue := range a {
		if inputValue.Name == name {
			return inputValue
		}
	}
	return nil
}

// Required reports whether the argument must be supplied: it is non-null and has no default.
func (iv *InputValueDefinition) Required() bool {
	_, nonNull := iv.Type.(*NonNull)
	return nonNull && !iv.HasDefault
}

// TypenameField is the meta field every object type answers with its own name.
//
// https://spec.graphql.org/draft/#sec-Type-Name-Introspection
var TypenameField = &FieldDefinition{
	Name: "__typename",
	Type: &NonNull{OfType: String},
}
