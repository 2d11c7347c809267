package types

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// ScalarTypeDefinition represents a GraphQL ScalarTypeDefinition.
//
// Serialize converts a resolved value into its response form. ParseValue converts an argument
// or variable value into the form handed to resolvers. A nil function passes values through.
//
// https://spec.graphql.org/draft/#sec-Scalars
type ScalarTypeDefinition struct {
	Name       string
	Desc       string
	Serialize  func(value interface{}) (interface{}, error)
	ParseValue func(value interface{}) (interface{}, error)
}

func (*ScalarTypeDefinition) Kind() string          { return KindScalar }
func (t *ScalarTypeDefinition) String() string      { return t.Name }
func (t *ScalarTypeDefinition) TypeName() string    { return t.Name }
func (t *ScalarTypeDefinition) Description() string { return t.Desc }

// OutputValue serializes a non-null resolved value.
func (t *ScalarTypeDefinition) OutputValue(value interface{}) (interface{}, error) {
	if t.Serialize == nil {
		return value, nil
	}
	return t.Serialize(value)
}

// InputValue parses a non-null argument or variable value.
func (t *ScalarTypeDefinition) InputValue(value interface{}) (interface{}, error) {
	if t.ParseValue == nil {
		return value, nil
	}
	return t.ParseValue(value)
}

var (
	Int = &ScalarTypeDefinition{
		Name:       "Int",
		Desc:       "The `Int` scalar type represents non-fractional signed whole numeric values.",
		Serialize:  serializeInt,
		ParseValue: parseInt,
	}
	Float = &ScalarTypeDefinition{
		Name:       "Float",
		Desc:       "The `Float` scalar type represents signed double-precision fractional values.",
		Serialize:  serializeFloat,
		ParseValue: serializeFloat,
	}
	String = &ScalarTypeDefinition{
		Name:       "String",
		Desc:       "The `String` scalar type represents textual data.",
		Serialize:  serializeString,
		ParseValue: parseString,
	}
	Boolean = &ScalarTypeDefinition{
		Name:       "Boolean",
		Desc:       "The `Boolean` scalar type represents `true` or `false`.",
		Serialize:  serializeBoolean,
		ParseValue: parseBoolean,
	}
	ID = &ScalarTypeDefinition{
		Name:       "ID",
		Desc:       "The `ID` scalar type represents a unique identifier.",
		Serialize:  serializeID,
		ParseValue: serializeID,
	}
)

// BuiltinScalars lists the scalars every schema starts with.
func BuiltinScalars() []*ScalarTypeDefinition {
	return []*ScalarTypeDefinition{Int, Float, String, Boolean, ID}
}

func toFloat(value interface{}) (float64, bool) {
	if n, ok := value.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

func toInt(value interface{}) (int, error) {
	f, ok := toFloat(value)
	if !ok {
		return 0, fmt.Errorf("Int cannot represent non-integer value: %v", value)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("Int cannot represent non-integer value: %v", value)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %v", value)
	}
	return int(f), nil
}

func serializeInt(value interface{}) (interface{}, error) {
	return toInt(value)
}

func parseInt(value interface{}) (interface{}, error) {
	switch value.(type) {
	case string, bool:
		return nil, fmt.Errorf("Int cannot represent non-integer value: %v", value)
	}
	return toInt(value)
}

func serializeFloat(value interface{}) (interface{}, error) {
	f, ok := toFloat(value)
	if !ok || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("Float cannot represent non numeric value: %v", value)
	}
	return f, nil
}

func serializeString(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	if v := reflect.ValueOf(value); v.Kind() == reflect.String {
		return v.String(), nil
	}
	return nil, fmt.Errorf("String cannot represent value: %v", value)
}

func parseString(value interface{}) (interface{}, error) {
	if v := reflect.ValueOf(value); v.Kind() == reflect.String {
		return v.String(), nil
	}
	return nil, fmt.Errorf("String cannot represent a non string value: %v", value)
}

func serializeBoolean(value interface{}) (interface{}, error) {
	if v := reflect.ValueOf(value); v.Kind() == reflect.Bool {
		return v.Bool(), nil
	}
	return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", value)
}

func parseBoolean(value interface{}) (interface{}, error) {
	return serializeBoolean(value)
}

func serializeID(value interface{}) (interface{}, error) {
	if v := reflect.ValueOf(value); v.Kind() == reflect.String {
		return v.String(), nil
	}
	if s, ok := value.(fmt.Stringer); ok {
		return s.String(), nil
	}
	if f, ok := toFloat(value); ok && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10), nil
	}
	return nil, fmt.Errorf("ID cannot represent value: %v", value)
}
