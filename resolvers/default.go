package resolvers

import (
	"context"
	"reflect"
	"strings"

	"github.com/graph-gophers/graphql-fn/internal/common"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// accessors caches, per parent type and field name, how to read the field.
var accessors common.Cache

type accessorKey struct {
	parent reflect.Type
	field  string
}

// accessor reads one field from values of one parent type. A nil accessor reads nothing.
type accessor struct {
	method int   // method index, or -1
	index  []int // struct field index when method is -1
	sig    signature
}

// signature describes a callable property: func([context.Context]) T or
// func([context.Context]) (T, error).
type signature struct {
	withContext bool
	withError   bool
}

// Default resolves a field that has no bound resolver by reading the property of the parent
// named like the field:
//   - a method named like the field (case-insensitive, underscores ignored) taking nothing or
//     a context.Context and returning a value or (value, error),
//   - a map entry keyed by the field name; function entries are called like methods,
//   - a struct field whose json tag or name matches the field name.
//
// Anything else resolves to nil.
func Default(ctx context.Context, parent interface{}, fieldName string) (interface{}, error) {
	if parent == nil {
		return nil, nil
	}
	v := reflect.ValueOf(parent)
	if a := accessorFor(v.Type(), fieldName); a != nil && a.method >= 0 {
		return a.sig.call(ctx, v.Method(a.method))
	}

	v = indirect(v)
	switch v.Kind() {
	case reflect.Map:
		return mapEntry(ctx, v, fieldName)
	case reflect.Struct:
		if a := accessorFor(v.Type(), fieldName); a != nil && a.index != nil {
			return interfaceOf(v.FieldByIndex(a.index)), nil
		}
	}
	return nil, nil
}

func mapEntry(ctx context.Context, m reflect.Value, key string) (interface{}, error) {
	if m.Type().Key().Kind() != reflect.String {
		return nil, nil
	}
	entry := m.MapIndex(reflect.ValueOf(key).Convert(m.Type().Key()))
	if entry.Kind() == reflect.Interface {
		entry = entry.Elem()
	}
	if entry.Kind() == reflect.Func && !entry.IsNil() {
		if sig, ok := signatureOf(entry.Type(), 0); ok {
			return sig.call(ctx, entry)
		}
	}
	return interfaceOf(entry), nil
}

func (s signature) call(ctx context.Context, fn reflect.Value) (interface{}, error) {
	var in []reflect.Value
	if s.withContext {
		in = []reflect.Value{reflect.ValueOf(ctx)}
	}
	out := fn.Call(in)
	if s.withError && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return interfaceOf(out[0]), nil
}

// signatureOf checks ft against the accepted property shapes. skip is the number of leading
// inputs already bound, such as a method receiver.
func signatureOf(ft reflect.Type, skip int) (signature, bool) {
	var s signature
	in := ft.NumIn() - skip
	if in > 0 && ft.In(skip) == contextType {
		s.withContext = true
		in--
	}
	if in != 0 {
		return s, false
	}
	switch ft.NumOut() {
	case 1:
		return s, true
	case 2:
		s.withError = true
		return s, ft.Out(1) == errorType
	default:
		return s, false
	}
}

func accessorFor(t reflect.Type, fieldName string) *accessor {
	return accessors.GetOrElseUpdate(accessorKey{t, fieldName}, func() interface{} {
		if a := findMethod(t, fieldName); a != nil {
			return a
		}
		if t.Kind() == reflect.Struct {
			if index := findField(t, fieldName); index != nil {
				return &accessor{method: -1, index: index}
			}
		}
		return (*accessor)(nil)
	}).(*accessor)
}

func findMethod(t reflect.Type, fieldName string) *accessor {
	want := normalize(fieldName)
	skip := 1
	if t.Kind() == reflect.Interface {
		skip = 0
	}
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if normalize(m.Name) != want {
			continue
		}
		if sig, ok := signatureOf(m.Type, skip); ok {
			return &accessor{method: i, sig: sig}
		}
	}
	return nil
}

// findField prefers a json tag match; otherwise it takes the first exported field whose name
// equals fieldName ignoring case. Fields tagged `json:"-"` are never read.
func findField(t reflect.Type, fieldName string) []int {
	var byName []int
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		tag, hasTag := f.Tag.Lookup("json")
		name, _, _ := strings.Cut(tag, ",")
		switch {
		case tag == "-":
		case hasTag && name != "":
			if name == fieldName {
				return f.Index
			}
		case byName == nil && strings.EqualFold(f.Name, fieldName):
			byName = f.Index
		}
	}
	return byName
}

func normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func interfaceOf(v reflect.Value) interface{} {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}
