package exec

import (
	"fmt"

	"github.com/graph-gophers/graphql-fn/ast"
	"github.com/graph-gophers/graphql-fn/errors"
	"github.com/graph-gophers/graphql-fn/schema"
	"github.com/graph-gophers/graphql-fn/types"
)

// CoerceVariables converts the raw variable values of a request into the values resolvers
// receive. Variables that are neither provided nor defaulted are left out of the result, so
// arguments bound to them count as not provided. The operation must have passed validation.
//
// https://spec.graphql.org/draft/#CoerceVariableValues()
func CoerceVariables(s *schema.Schema, op *ast.OperationDefinition, raw map[string]interface{}) (map[string]interface{}, []*errors.QueryError) {
	coerced := make(map[string]interface{}, len(op.Vars))
	var errs []*errors.QueryError
	for _, v := range op.Vars {
		name := v.Name.Name
		t, err := s.ResolveRef(v.Type)
		if err != nil {
			errs = append(errs, coercionError(v, "%s", err))
			continue
		}

		value, provided := raw[name]
		if !provided {
			if v.Default != nil {
				def, err := coerceValue(v.Default, t, nil)
				if err != nil {
					errs = append(errs, coercionError(v, "Variable %q has invalid default value: %s", "$"+name, err))
					continue
				}
				coerced[name] = def
				continue
			}
			if _, ok := t.(*types.NonNull); ok {
				errs = append(errs, coercionError(v, "Variable %q of required type %q was not provided.", "$"+name, t))
			}
			continue
		}

		value, err = types.CoerceInput(value, t)
		if err != nil {
			errs = append(errs, coercionError(v, "Variable %q got invalid value %s; %s", "$"+name, formatValue(raw[name]), err))
			continue
		}
		coerced[name] = value
	}
	return coerced, errs
}

func coercionError(v *ast.VariableDefinition, format string, a ...interface{}) *errors.QueryError {
	err := errors.Kindf(errors.VariableCoercionError, format, a...)
	err.Locations = []errors.Location{v.Loc}
	return err
}

func formatValue(v interface{}) string {
	if v == nil {
		return "null"
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

// coerceArguments builds the argument map for one field. Arguments that are absent, or bound
// to a variable that was not provided, fall back to the declared default and are otherwise
// left out.
//
// https://spec.graphql.org/draft/#CoerceArgumentValues()
func coerceArguments(args ast.ArgumentList, defs types.ArgumentsDefinition, vars map[string]interface{}) (map[string]interface{}, error) {
	coerced := make(map[string]interface{}, len(defs))
	for _, def := range defs {
		value, ok := args.Get(def.Name)
		if ok {
			if v, isVar := value.(*ast.Variable); isVar {
				_, ok = vars[v.Name]
			}
		}

		if !ok {
			if def.HasDefault {
				coerced[def.Name] = def.Default
			} else if def.Required() {
				return nil, fmt.Errorf("Argument %q of required type %q was not provided.", def.Name, def.Type)
			}
			continue
		}

		c, err := coerceValue(value, def.Type, vars)
		if err != nil {
			return nil, fmt.Errorf("Argument %q has invalid value %s. %s", def.Name, value, err)
		}
		coerced[def.Name] = c
	}
	return coerced, nil
}

// coerceValue converts a literal to type t. Variable values were coerced by CoerceVariables
// and are used as they are.
func coerceValue(value ast.Value, t types.Type, vars map[string]interface{}) (interface{}, error) {
	switch value := value.(type) {
	case *ast.Variable:
		v := vars[value.Name]
		if _, ok := t.(*types.NonNull); ok && v == nil {
			return nil, fmt.Errorf("Expected non-nullable type %q not to be null.", t)
		}
		return v, nil

	case *ast.ListValue:
		inner, _ := types.UnwrapNonNull(t)
		list, ok := inner.(*types.List)
		if !ok {
			return types.CoerceInput(value.Deserialize(vars), t)
		}
		items := make([]interface{}, len(value.Values))
		for i, entry := range value.Values {
			item, err := coerceValue(entry, list.OfType, vars)
			if err != nil {
				return nil, fmt.Errorf("In element #%d: %s", i, err)
			}
			items[i] = item
		}
		return items, nil

	default:
		return types.CoerceInput(value.Deserialize(vars), t)
	}
}
