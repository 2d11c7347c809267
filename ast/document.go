package ast

import "github.com/graph-gophers/graphql-fn/errors"

// Document is a parsed executable GraphQL document.
//
// http://spec.graphql.org/draft/#ExecutableDocument
type Document struct {
	Operations OperationList
	Fragments  FragmentList
}

type OperationType string

const (
	Query    OperationType = "query"
	Mutation OperationType = "mutation"
)

// OperationDefinition is a single query or mutation.
//
// http://spec.graphql.org/draft/#OperationDefinition
type OperationDefinition struct {
	Type       OperationType
	Name       Ident
	Vars       VariableList
	Selections SelectionSet
	Directives DirectiveList
	Loc        errors.Location
}

type OperationList []*OperationDefinition

// Get returns the operation with the given name, or nil.
func (l OperationList) Get(name string) *OperationDefinition {
	for _, op := range l {
		if op.Name.Name == name {
			return op
		}
	}
	return nil
}

// FragmentDefinition is a named selection set kept in the document's side table. Spreads refer
// to it by name only.
//
// http://spec.graphql.org/draft/#FragmentDefinition
type FragmentDefinition struct {
	Name       Ident
	On         TypeName
	Directives DirectiveList
	Selections SelectionSet
	Loc        errors.Location
}

type FragmentList []*FragmentDefinition

// Get returns the fragment with the given name, or nil.
func (l FragmentList) Get(name string) *FragmentDefinition {
	for _, f := range l {
		if f.Name.Name == name {
			return f
		}
	}
	return nil
}

// VariableDefinition declares an operation variable, e.g. `$id: ID! = 1`.
type VariableDefinition struct {
	Name    Ident
	Type    Type
	Default Value
	Loc     errors.Location
	TypeLoc errors.Location
}

type VariableList []*VariableDefinition

// Get returns the variable declaration with the given name, or nil.
func (l VariableList) Get(name string) *VariableDefinition {
	for _, v := range l {
		if v.Name.Name == name {
			return v
		}
	}
	return nil
}

// Ident is a name together with its position in the source text.
type Ident struct {
	Name string
	Loc  errors.Location
}

// SelectionSet is ordered; the order fixes output key order and resolver invocation order.
type SelectionSet []Selection

// Selection is one of *Field, *FragmentSpread or *InlineFragment.
type Selection interface {
	isSelection()
}

// Field is a field selection.
//
// http://spec.graphql.org/draft/#Field
type Field struct {
	Alias           Ident
	Name            Ident
	Arguments       ArgumentList
	Directives      DirectiveList
	SelectionSet    SelectionSet
	SelectionSetLoc errors.Location
}

// ResponseKey is the alias if one is given, otherwise the field name.
func (f *Field) ResponseKey() string {
	return f.Alias.Name
}

// FragmentSpread references a fragment definition by name.
type FragmentSpread struct {
	Name       Ident
	Directives DirectiveList
	Loc        errors.Location
}

// InlineFragment is an anonymous fragment with an optional type condition.
type InlineFragment struct {
	On         TypeName
	Directives DirectiveList
	Selections SelectionSet
	Loc        errors.Location
}

func (Field) isSelection()          {}
func (FragmentSpread) isSelection() {}
func (InlineFragment) isSelection() {}

// Argument is a name/value pair. The value is kept unresolved; variables are substituted at
// execution time.
type Argument struct {
	Name  Ident
	Value Value
}

type ArgumentList []*Argument

// Get returns the value of the named argument.
func (l ArgumentList) Get(name string) (Value, bool) {
	for _, arg := range l {
		if arg.Name.Name == name {
			return arg.Value, true
		}
	}
	return nil, false
}

// Directive is a directive use such as @skip(if: $flag).
type Directive struct {
	Name      Ident
	Arguments ArgumentList
}

type DirectiveList []*Directive

// Get returns the directive with the given name, or nil.
func (l DirectiveList) Get(name string) *Directive {
	for _, d := range l {
		if d.Name.Name == name {
			return d
		}
	}
	return nil
}
