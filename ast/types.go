package ast

// Type is a type reference in a variable declaration: a named type, a list or a non-null
// wrapper.
//
// http://spec.graphql.org/draft/#sec-Type-References
type Type interface {
	// String returns the type in GraphQL notation, e.g. "[String!]!".
	String() string
	isType()
}

// TypeName is a reference to a named type.
type TypeName struct {
	Ident
}

// List wraps another type reference.
type List struct {
	OfType Type
}

// NonNull wraps another type reference.
type NonNull struct {
	OfType Type
}

func (t *TypeName) String() string { return t.Name }
func (t *List) String() string     { return "[" + t.OfType.String() + "]" }
func (t *NonNull) String() string  { return t.OfType.String() + "!" }

func (*TypeName) isType() {}
func (*List) isType()     {}
func (*NonNull) isType()  {}
