package common

import (
	"text/scanner"

	"github.com/graph-gophers/graphql-fn/ast"
)

// Value parses an input value. Variables are rejected when constant is set, as in default
// values.
//
// http://spec.graphql.org/draft/#Value
func (l *Lexer) Value(constant bool) ast.Value {
	loc := l.Location()
	switch l.tok {
	case '$':
		if constant {
			l.Errorf("variable not allowed")
		}
		l.Next()
		return &ast.Variable{Name: l.Name().Name, Loc: loc}

	case scanner.Ident:
		if l.sc.TokenText() == "null" {
			l.Next()
			return &ast.NullValue{Loc: loc}
		}
		return l.literal()

	case scanner.Int, scanner.Float, scanner.String:
		return l.literal()

	case '-':
		l.Next()
		if l.tok != scanner.Int && l.tok != scanner.Float {
			l.Errorf("invalid value")
		}
		lit := l.literal()
		lit.Text, lit.Loc = "-"+lit.Text, loc
		return lit

	case '[':
		l.Next()
		list := &ast.ListValue{Loc: loc}
		for !l.Skip(']') {
			if l.tok == scanner.EOF {
				l.Errorf("unterminated list value")
			}
			list.Values = append(list.Values, l.Value(constant))
		}
		return list

	case '{':
		l.Next()
		obj := &ast.ObjectValue{Loc: loc}
		for !l.Skip('}') {
			name := l.Name()
			l.Expect(':')
			obj.Fields = append(obj.Fields, &ast.ObjectField{Name: name, Value: l.Value(constant)})
		}
		return obj
	}

	l.Errorf("invalid value")
	return nil
}

// Type parses a type reference such as `[ID!]!`.
func (l *Lexer) Type() ast.Type {
	var t ast.Type
	if l.Skip('[') {
		t = &ast.List{OfType: l.Type()}
		l.Expect(']')
	} else {
		t = &ast.TypeName{Ident: l.Name()}
	}
	if l.Skip('!') {
		return &ast.NonNull{OfType: t}
	}
	return t
}

// Arguments parses an optional parenthesized argument list.
func (l *Lexer) Arguments() ast.ArgumentList {
	if !l.Skip('(') {
		return nil
	}
	var args ast.ArgumentList
	for !l.Skip(')') {
		name := l.Name()
		l.Expect(':')
		args = append(args, &ast.Argument{Name: name, Value: l.Value(false)})
	}
	return args
}

// Directives parses any number of directive uses. A directive's location is that of its '@'.
func (l *Lexer) Directives() ast.DirectiveList {
	var list ast.DirectiveList
	for l.tok == '@' {
		at := l.Location()
		l.Next()
		d := &ast.Directive{Name: l.Name()}
		d.Name.Loc = at
		d.Arguments = l.Arguments()
		list = append(list, d)
	}
	return list
}

// VariableDefinition parses `$name: Type = default`.
func (l *Lexer) VariableDefinition() *ast.VariableDefinition {
	v := &ast.VariableDefinition{Loc: l.Location()}
	l.Expect('$')
	v.Name = l.Name()
	l.Expect(':')
	v.TypeLoc = l.Location()
	v.Type = l.Type()
	if l.Skip('=') {
		v.Default = l.Value(true)
	}
	return v
}
