package validation

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/graph-gophers/graphql-fn/ast"
	"github.com/graph-gophers/graphql-fn/errors"
	"github.com/graph-gophers/graphql-fn/types"
)

type directiveDefinition struct {
	args      types.ArgumentsDefinition
	locations []string
}

var conditionArgs = types.ArgumentsDefinition{
	{Name: "if", Type: &types.NonNull{OfType: types.Boolean}},
}

// directives are the only ones the executor understands.
var directives = map[string]directiveDefinition{
	"skip":    {args: conditionArgs, locations: []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"}},
	"include": {args: conditionArgs, locations: []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"}},
}

func (v *validator) checkDirectives(sc scope, location string, list ast.DirectiveList) {
	seen := make(nameSet)
	for _, d := range list {
		name := d.Name.Name
		if first, dup := seen[name]; dup {
			v.reportAt([]errors.Location{first, d.Name.Loc}, errors.ValidationError, "The directive %q can only be used once at this location.", name)
		} else {
			seen[name] = d.Name.Loc
		}
		v.checkArgumentLiterals(sc, d.Arguments)

		def, ok := directives[name]
		if !ok {
			v.report(d.Name.Loc, errors.ValidationError, "Unknown directive %q.", name)
			continue
		}
		if !slices.Contains(def.locations, location) {
			v.report(d.Name.Loc, errors.ValidationError, "Directive %q may not be used on %s.", name, location)
		}
		v.checkArguments(sc, d.Arguments, def.args, d.Name.Loc, "directive", "@"+name)
	}
}

// checkArguments matches given arguments against their declarations. kind and owner name what
// declares them, e.g. field "Query.user" or directive "@skip".
func (v *validator) checkArguments(sc scope, args ast.ArgumentList, decls types.ArgumentsDefinition, loc errors.Location, kind, owner string) {
	for _, arg := range args {
		decl := decls.Get(arg.Name.Name)
		if decl == nil {
			v.report(arg.Name.Loc, errors.UnknownArgumentError, "%q on %s %q", arg.Name.Name, kind, owner)
			continue
		}
		if ok, reason := v.valueFits(sc, arg.Value, decl.Type); !ok {
			v.report(arg.Value.Location(), errors.ValidationError, "Argument %q has invalid value %s. %s", decl.Name, arg.Value, reason)
		}
	}

	for _, decl := range decls {
		if _, given := args.Get(decl.Name); given || !decl.Required() {
			continue
		}
		v.report(loc, errors.MissingArgumentError, "%s %q argument %q of type %q is required but not provided.", strings.ToUpper(kind[:1])+kind[1:], owner, decl.Name, decl.Type)
	}
}

func (v *validator) checkArgumentLiterals(sc scope, args ast.ArgumentList) {
	names := make(nameSet)
	for _, arg := range args {
		v.unique(names, arg.Name, "argument")
		v.checkLiteral(sc, arg.Value)
	}
}

// checkLiteral marks the variables val refers to as used by each operation in sc, and records an
// error for each operation that does not declare one.
func (v *validator) checkLiteral(sc scope, val ast.Value) {
	switch val := val.(type) {
	case *ast.ObjectValue:
		names := make(nameSet)
		for _, f := range val.Fields {
			v.unique(names, f.Name, "input field")
			v.checkLiteral(sc, f.Value)
		}

	case *ast.ListValue:
		for _, item := range val.Values {
			v.checkLiteral(sc, item)
		}

	case *ast.Variable:
		for _, op := range sc {
			if decl := op.Vars.Get(val.Name); decl != nil {
				v.used[op][decl] = true
				continue
			}
			by := ""
			if op.Name.Name != "" {
				by = fmt.Sprintf(" by operation %q", op.Name.Name)
			}
			err := errors.Kindf(errors.UndeclaredVariableError, "Variable %q is not defined%s.", "$"+val.Name, by)
			err.Locations = []errors.Location{val.Loc, op.Loc}
			v.undeclared[op] = append(v.undeclared[op], err)
		}
	}
}

// valueFits reports whether the literal val can be coerced to t and, if not, why. A variable
// always fits here; its declared type is checked against the position instead.
func (v *validator) valueFits(sc scope, val ast.Value, t types.Type) (bool, string) {
	if ref, ok := val.(*ast.Variable); ok {
		v.checkVariablePosition(sc, ref, t)
		return true, ""
	}

	_, isNull := val.(*ast.NullValue)
	if nn, ok := t.(*types.NonNull); ok {
		if isNull {
			return false, fmt.Sprintf("Expected %q, found null.", t)
		}
		t = nn.OfType
	}
	if isNull {
		return true, ""
	}

	switch tt := t.(type) {
	case *types.ScalarTypeDefinition:
		if scalarLiteralFits(val, tt) {
			return true, ""
		}
	case *types.List:
		list, ok := val.(*ast.ListValue)
		if !ok {
			// A single item is coerced to a list of one.
			return v.valueFits(sc, val, tt.OfType)
		}
		for i, item := range list.Values {
			if ok, reason := v.valueFits(sc, item, tt.OfType); !ok {
				return false, fmt.Sprintf("In element #%d: %s", i, reason)
			}
		}
		return true, ""
	}
	return false, fmt.Sprintf("Expected type %q, found %s.", t, val)
}

// checkVariablePosition reports a variable whose declared type cannot be used where t is
// expected. A default value makes a nullable variable usable in a non-null position.
func (v *validator) checkVariablePosition(sc scope, ref *ast.Variable, expected types.Type) {
	for _, op := range sc {
		decl := op.Vars.Get(ref.Name)
		if decl == nil {
			continue
		}
		actual, err := v.schema.ResolveRef(decl.Type)
		if err != nil {
			continue
		}
		if _, nonNull := actual.(*types.NonNull); !nonNull && decl.Default != nil {
			actual = &types.NonNull{OfType: actual}
		}
		if !v.schema.IsAssignable(actual, expected) {
			v.reportAt([]errors.Location{decl.Loc, ref.Loc}, errors.ValidationError, "Variable %q of type %q used in position expecting type %q.", "$"+ref.Name, actual, expected)
		}
	}
}

// scalarLiteralFits checks literals for the built-in scalars. Custom scalars accept any literal;
// their ParseValue rejects bad input during execution.
func scalarLiteralFits(val ast.Value, t *types.ScalarTypeDefinition) bool {
	lit, ok := val.(*ast.PrimitiveValue)
	if !ok {
		return !slices.Contains(types.BuiltinScalars(), t)
	}
	switch t {
	case types.Int:
		return lit.Type == scanner.Int && fitsInt32(lit.Text)
	case types.Float:
		if lit.Type != scanner.Int && lit.Type != scanner.Float {
			return false
		}
		_, err := strconv.ParseFloat(lit.Text, 64)
		return err == nil
	case types.String:
		return lit.Type == scanner.String
	case types.Boolean:
		return lit.Type == scanner.Ident && (lit.Text == "true" || lit.Text == "false")
	case types.ID:
		return lit.Type == scanner.String || (lit.Type == scanner.Int && fitsInt32(lit.Text))
	default:
		return true
	}
}

func fitsInt32(text string) bool {
	n, err := strconv.ParseInt(text, 10, 64)
	return err == nil && n >= math.MinInt32 && n <= math.MaxInt32
}
