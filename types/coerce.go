package types

import (
	"fmt"
	"reflect"
)

// CoerceInput converts an argument or variable value to the representation resolvers receive
// for type t. Lists accept a single item in place of a list of one.
//
// https://spec.graphql.org/draft/#sec-Input-Values
func CoerceInput(value interface{}, t Type) (interface{}, error) {
	if nn, ok := t.(*NonNull); ok {
		if isNil(value) {
			return nil, fmt.Errorf("Expected non-nullable type %q not to be null.", t)
		}
		return CoerceInput(value, nn.OfType)
	}
	if isNil(value) {
		return nil, nil
	}

	switch t := t.(type) {
	case *List:
		v := reflect.ValueOf(value)
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			item, err := CoerceInput(value, t.OfType)
			if err != nil {
				return nil, err
			}
			return []interface{}{item}, nil
		}
		items := make([]interface{}, v.Len())
		for i := range items {
			item, err := CoerceInput(v.Index(i).Interface(), t.OfType)
			if err != nil {
				return nil, fmt.Errorf("In element #%d: %s", i, err)
			}
			items[i] = item
		}
		return items, nil

	case *ScalarTypeDefinition:
		return t.InputValue(value)

	default:
		return nil, fmt.Errorf("Type %q is not an input type.", t)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
