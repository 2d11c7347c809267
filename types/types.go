/*
Package types represents the schema side of the GraphQL type system in code: scalars, objects
and the list and non-null wrappers around them.

The names of the Go types, whenever possible, match 1:1 with the names from
the GraphQL specification.
*/
package types

const (
	KindScalar  = "SCALAR"
	KindObject  = "OBJECT"
	KindList    = "LIST"
	KindNonNull = "NON_NULL"
)

// Type is any schema type: a named type or a wrapper around one.
type Type interface {
	// Kind returns one of the Kind constants.
	Kind() string
	// String returns the type in GraphQL notation, e.g. "[User!]!".
	String() string
}

// NamedType is a type identified by its name: *ScalarTypeDefinition or *ObjectTypeDefinition.
type NamedType interface {
	Type
	TypeName() string
	Description() string
}

// List represents a GraphQL ListType.
//
// https://spec.graphql.org/draft/#sec-List
type List struct {
	OfType Type
}

// NonNull represents a GraphQL NonNullType.
//
// https://spec.graphql.org/draft/#sec-Non-Null
type NonNull struct {
	OfType Type
}

func (*List) Kind() string        { return KindList }
func (t *List) String() string    { return "[" + t.OfType.String() + "]" }
func (*NonNull) Kind() string     { return KindNonNull }
func (t *NonNull) String() string { return t.OfType.String() + "!" }

// Unwrap strips all list and non-null wrappers.
func Unwrap(t Type) NamedType {
	for {
		switch tt := t.(type) {
		case *List:
			t = tt.OfType
		case *NonNull:
			t = tt.OfType
		case NamedType:
			return tt
		default:
			return nil
		}
	}
}

// UnwrapNonNull removes the non-null wrapper, if any. The second return value reports
// whether one was removed.
func UnwrapNonNull(t Type) (Type, bool) {
	if nn, ok := t.(*NonNull); ok {
		return nn.OfType, true
	}
	return t, false
}

// IsLeaf reports whether t, ignoring wrappers, is a scalar.
func IsLeaf(t Type) bool {
	_, ok := Unwrap(t).(*ScalarTypeDefinition)
	return ok
}

// HasSubfields reports whether selections on a field of type t need a selection set.
func HasSubfields(t Type) bool {
	_, ok := Unwrap(t).(*ObjectTypeDefinition)
	return ok
}

// IsInput reports whether t may be used for arguments and variables.
func IsInput(t Type) bool {
	return IsLeaf(t)
}

// IsAssignable reports whether a value of type actual can be used where expected is required.
// A non-null type is assignable to its nullable counterpart, lists are compared element-wise
// and named types by identity.
func IsAssignable(actual, expected Type) bool {
	if nnExpected, ok := expected.(*NonNull); ok {
		nnActual, ok := actual.(*NonNull)
		if !ok {
			return false
		}
		return IsAssignable(nnActual.OfType, nnExpected.OfType)
	}
	if nnActual, ok := actual.(*NonNull); ok {
		return IsAssignable(nnActual.OfType, expected)
	}
	if lExpected, ok := expected.(*List); ok {
		lActual, ok := actual.(*List)
		if !ok {
			return false
		}
		return IsAssignable(lActual.OfType, lExpected.OfType)
	}
	if _, ok := actual.(*List); ok {
		return false
	}
	return actual == expected
}
