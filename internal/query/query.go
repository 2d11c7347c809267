// Package query parses GraphQL request documents.
package query

import (
	"text/scanner"

	"github.com/graph-gophers/graphql-fn/ast"
	"github.com/graph-gophers/graphql-fn/errors"
	"github.com/graph-gophers/graphql-fn/internal/common"
)

// Parse turns request text into a Document. Arguments keep their literal or variable form so
// one parsed document can be executed with different variables.
func Parse(queryString string) (*ast.Document, *errors.QueryError) {
	p := parser{common.NewLexer(queryString)}
	doc := &ast.Document{}
	if err := p.Try(func() { p.document(doc) }); err != nil {
		return nil, err
	}
	return doc, nil
}

type parser struct {
	*common.Lexer
}

func (p parser) document(doc *ast.Document) {
	for p.Next(); p.Peek() != scanner.EOF; {
		loc := p.Location()
		if p.Peek() == '{' {
			doc.Operations = append(doc.Operations, &ast.OperationDefinition{
				Type:       ast.Query,
				Selections: p.selectionSet(),
				Loc:        loc,
			})
			continue
		}
		if p.Peek() != scanner.Ident {
			p.Unexpected(`"{"`)
		}

		switch kw := p.Name().Name; kw {
		case "query":
			doc.Operations = append(doc.Operations, p.operation(ast.Query, loc))
		case "mutation":
			doc.Operations = append(doc.Operations, p.operation(ast.Mutation, loc))
		case "subscription":
			p.Errorf("subscriptions are not supported")
		case "fragment":
			doc.Fragments = append(doc.Fragments, p.fragment(loc))
		default:
			p.Errorf(`unexpected %q, expecting "fragment"`, kw)
		}
	}
	if len(doc.Operations) == 0 {
		p.Errorf("document contains no operation")
	}
}

// operation parses what follows the operation keyword.
func (p parser) operation(t ast.OperationType, loc errors.Location) *ast.OperationDefinition {
	op := &ast.OperationDefinition{Type: t, Loc: loc}
	op.Name.Loc = p.Location()
	if p.Peek() == scanner.Ident {
		op.Name = p.Name()
	}
	if p.Skip('(') {
		for !p.Skip(')') {
			op.Vars = append(op.Vars, p.VariableDefinition())
		}
	}
	op.Directives = p.Directives()
	op.Selections = p.selectionSet()
	return op
}

func (p parser) fragment(loc errors.Location) *ast.FragmentDefinition {
	frag := &ast.FragmentDefinition{Loc: loc, Name: p.Name()}
	if frag.Name.Name == "on" {
		p.Errorf(`fragment cannot be named "on"`)
	}
	p.Keyword("on")
	frag.On = ast.TypeName{Ident: p.Name()}
	frag.Directives = p.Directives()
	frag.Selections = p.selectionSet()
	return frag
}

func (p parser) selectionSet() ast.SelectionSet {
	var sels ast.SelectionSet
	p.Expect('{')
	for !p.Skip('}') {
		if p.Peek() == '.' {
			sels = append(sels, p.fragmentSelection())
		} else {
			sels = append(sels, p.field())
		}
	}
	if len(sels) == 0 {
		p.Errorf("selection set must not be empty")
	}
	return sels
}

func (p parser) field() *ast.Field {
	f := &ast.Field{Alias: p.Name()}
	f.Name = f.Alias
	if p.Skip(':') {
		f.Name = p.Name()
	}
	f.Arguments = p.Arguments()
	f.Directives = p.Directives()
	if p.Peek() == '{' {
		f.SelectionSetLoc = p.Location()
		f.SelectionSet = p.selectionSet()
	}
	return f
}

// fragmentSelection parses a named spread or an inline fragment, both introduced by "...".
func (p parser) fragmentSelection() ast.Selection {
	loc := p.Location()
	for i := 0; i < 3; i++ {
		p.Expect('.')
	}

	inline := &ast.InlineFragment{Loc: loc}
	if p.Peek() == scanner.Ident {
		name := p.Name()
		if name.Name != "on" {
			return &ast.FragmentSpread{Name: name, Directives: p.Directives(), Loc: loc}
		}
		inline.On = ast.TypeName{Ident: p.Name()}
	}
	inline.Directives = p.Directives()
	inline.Selections = p.selectionSet()
	return inline
}
