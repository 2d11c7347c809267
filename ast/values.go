package ast

import (
	"strconv"
	"strings"
	"text/scanner"

	"github.com/graph-gophers/graphql-fn/errors"
)

// Value is an input value literal. Variables stay unresolved until Deserialize is called with
// the request's variable values.
//
// http://spec.graphql.org/draft/#Value
type Value interface {
	// Deserialize returns the Go representation of the value, substituting variables from vars.
	Deserialize(vars map[string]interface{}) interface{}

	// String returns the value as written in GraphQL notation.
	String() string

	// Location returns the position of the value in the document.
	Location() errors.Location
}

// PrimitiveValue is an Int, Float, String, Boolean or enum literal.
type PrimitiveValue struct {
	Type rune
	Text string
	Loc  errors.Location
}

func (val *PrimitiveValue) Deserialize(vars map[string]interface{}) interface{} {
	switch val.Type {
	case scanner.Int:
		value, err := strconv.ParseInt(val.Text, 10, 64)
		if err != nil {
			// out of range for int64; input coercion rejects it later
			f, _ := strconv.ParseFloat(val.Text, 64)
			return f
		}
		return int(value)

	case scanner.Float:
		value, err := strconv.ParseFloat(val.Text, 64)
		if err != nil {
			panic(err)
		}
		return value

	case scanner.String:
		value, err := strconv.Unquote(val.Text)
		if err != nil {
			panic(err)
		}
		return value

	case scanner.Ident:
		switch val.Text {
		case "true":
			return true
		case "false":
			return false
		default:
			return val.Text
		}

	default:
		panic("invalid literal value")
	}
}

func (val *PrimitiveValue) String() string            { return val.Text }
func (val *PrimitiveValue) Location() errors.Location { return val.Loc }

// Variable is a reference to an operation variable, e.g. `$id`.
type Variable struct {
	Name string
	Loc  errors.Location
}

func (v *Variable) Deserialize(vars map[string]interface{}) interface{} {
	return vars[v.Name]
}

func (v *Variable) String() string            { return "$" + v.Name }
func (v *Variable) Location() errors.Location { return v.Loc }

// NullValue is the literal `null`.
type NullValue struct {
	Loc errors.Location
}

func (n *NullValue) Deserialize(vars map[string]interface{}) interface{} { return nil }
func (n *NullValue) String() string                                      { return "null" }
func (n *NullValue) Location() errors.Location                           { return n.Loc }

// ListValue is a list literal, e.g. `[1, 2, $three]`.
type ListValue struct {
	Values []Value
	Loc    errors.Location
}

func (l *ListValue) Deserialize(vars map[string]interface{}) interface{} {
	entries := make([]interface{}, len(l.Values))
	for i, entry := range l.Values {
		entries[i] = entry.Deserialize(vars)
	}
	return entries
}

func (l *ListValue) String() string {
	entries := make([]string, 0, len(l.Values))
	for _, entry := range l.Values {
		entries = append(entries, entry.String())
	}
	return "[" + strings.Join(entries, ", ") + "]"
}

func (l *ListValue) Location() errors.Location { return l.Loc }

// ObjectValue is an object literal, e.g. `{a: 1}`.
type ObjectValue struct {
	Fields []*ObjectField
	Loc    errors.Location
}

type ObjectField struct {
	Name  Ident
	Value Value
}

func (o *ObjectValue) Deserialize(vars map[string]interface{}) interface{} {
	fields := make(map[string]interface{}, len(o.Fields))
	for _, f := range o.Fields {
		fields[f.Name.Name] = f.Value.Deserialize(vars)
	}
	return fields
}

func (o *ObjectValue) String() string {
	entries := make([]string, 0, len(o.Fields))
	for _, f := range o.Fields {
		entries = append(entries, f.Name.Name+": "+f.Value.String())
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

func (o *ObjectValue) Location() errors.Location { return o.Loc }

// Variables returns the names of all variables referenced by v, in order of appearance.
func Variables(v Value) []*Variable {
	switch v := v.(type) {
	case *Variable:
		return []*Variable{v}
	case *ListValue:
		var vars []*Variable
		for _, entry := range v.Values {
			vars = append(vars, Variables(entry)...)
		}
		return vars
	case *ObjectValue:
		var vars []*Variable
		for _, f := range v.Fields {
			vars = append(vars, Variables(f.Value)...)
		}
		return vars
	default:
		return nil
	}
}
