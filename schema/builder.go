package schema

import (
	"text/scanner"

	"github.com/pkg/errors"

	"github.com/graph-gophers/graphql-fn/ast"
	"github.com/graph-gophers/graphql-fn/internal/common"
	"github.com/graph-gophers/graphql-fn/types"
)

// Builder collects type definitions and validates them as a whole in Build. Type references
// are written in GraphQL notation ("[User!]!") and may point at types declared later.
type Builder struct {
	scalars  []*types.ScalarTypeDefinition
	objects  []*ObjectBuilder
	query    string
	mutation string
}

// ObjectBuilder collects the fields of one object type.
type ObjectBuilder struct {
	name   string
	desc   string
	fields []*fieldDef
}

type fieldDef struct {
	name    string
	desc    string
	typeRef string
	args    []ArgDef
}

// ArgDef declares an argument of a field.
type ArgDef struct {
	Name       string
	TypeRef    string
	Default    interface{}
	HasDefault bool
	Desc       string
}

// Arg declares an argument without a default value.
func Arg(name, typeRef string) ArgDef {
	return ArgDef{Name: name, TypeRef: typeRef}
}

// ArgDefault declares an argument with a default value.
func ArgDefault(name, typeRef string, value interface{}) ArgDef {
	return ArgDef{Name: name, TypeRef: typeRef, Default: value, HasDefault: true}
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Scalar declares a custom scalar. Nil functions pass values through unchanged.
func (b *Builder) Scalar(name string, serialize, parse func(interface{}) (interface{}, error)) *Builder {
	b.scalars = append(b.scalars, &types.ScalarTypeDefinition{
		Name:       name,
		Serialize:  serialize,
		ParseValue: parse,
	})
	return b
}

// Object declares a new object type.
func (b *Builder) Object(name string) *ObjectBuilder {
	o := &ObjectBuilder{name: name}
	b.objects = append(b.objects, o)
	return o
}

// Extend returns the first declared object with the given name, or nil.
func (b *Builder) Extend(name string) *ObjectBuilder {
	for _, o := range b.objects {
		if o.name == name {
			return o
		}
	}
	return nil
}

// Query names the query root type. It defaults to "Query".
func (b *Builder) Query(name string) *Builder {
	b.query = name
	return b
}

// Mutation names the mutation root type. A schema without one rejects mutations.
func (b *Builder) Mutation(name string) *Builder {
	b.mutation = name
	return b
}

// Description sets the object's description.
func (o *ObjectBuilder) Description(desc string) *ObjectBuilder {
	o.desc = desc
	return o
}

// Field declares a field in declaration order.
func (o *ObjectBuilder) Field(name, typeRef string, args ...ArgDef) *ObjectBuilder {
	o.fields = append(o.fields, &fieldDef{name: name, typeRef: typeRef, args: args})
	return o
}

// FieldDesc is Field with a description.
func (o *ObjectBuilder) FieldDesc(name, typeRef, desc string, args ...ArgDef) *ObjectBuilder {
	o.Field(name, typeRef, args...)
	o.fields[len(o.fields)-1].desc = desc
	return o
}

// Build validates the collected definitions and freezes them into a Schema.
func (b *Builder) Build() (*Schema, error) {
	s := New()
	for _, scalar := range b.scalars {
		if err := s.Register(scalar); err != nil {
			return nil, errors.Wrapf(err, "scalar %q", scalar.Name)
		}
	}

	objects := make([]*types.ObjectTypeDefinition, len(b.objects))
	for i, o := range b.objects {
		objects[i] = &types.ObjectTypeDefinition{Name: o.name, Desc: o.desc}
		if err := s.Register(objects[i]); err != nil {
			return nil, errors.Wrapf(err, "object %q", o.name)
		}
	}

	for i, o := range b.objects {
		if len(o.fields) == 0 {
			return nil, errors.Errorf("object %q must define at least one field", o.name)
		}
		for _, fd := range o.fields {
			f, err := buildField(s, fd)
			if err != nil {
				return nil, errors.Wrapf(err, "field %s.%s", o.name, fd.name)
			}
			if objects[i].Fields.Get(f.Name) != nil {
				return nil, errors.Errorf("field %s.%s is declared twice", o.name, f.Name)
			}
			objects[i].Fields = append(objects[i].Fields, f)
		}
	}

	queryName := b.query
	if queryName == "" {
		queryName = "Query"
	}
	s.query = s.Object(queryName)
	if s.query == nil {
		return nil, errors.Errorf("query root type %q is not a declared object type", queryName)
	}
	if b.mutation != "" {
		s.mutation = s.Object(b.mutation)
		if s.mutation == nil {
			return nil, errors.Errorf("mutation root type %q is not a declared object type", b.mutation)
		}
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func buildField(s *Schema, fd *fieldDef) (*types.FieldDefinition, error) {
	if len(fd.name) >= 2 && fd.name[:2] == "__" {
		return nil, errors.New(`names starting with "__" are reserved`)
	}
	t, err := s.ParseTypeRef(fd.typeRef)
	if err != nil {
		return nil, err
	}
	f := &types.FieldDefinition{Name: fd.name, Type: t, Desc: fd.desc}
	for _, ad := range fd.args {
		argType, err := s.ParseTypeRef(ad.TypeRef)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %q", ad.Name)
		}
		if !types.IsInput(argType) {
			return nil, errors.Errorf("argument %q cannot be of non-input type %q", ad.Name, argType)
		}
		if f.Arguments.Get(ad.Name) != nil {
			return nil, errors.Errorf("argument %q is declared twice", ad.Name)
		}
		iv := &types.InputValueDefinition{Name: ad.Name, Type: argType, Desc: ad.Desc}
		if ad.HasDefault {
			def, err := types.CoerceInput(ad.Default, argType)
			if err != nil {
				return nil, errors.Wrapf(err, "argument %q has invalid default value", ad.Name)
			}
			iv.Default = def
			iv.HasDefault = true
		}
		f.Arguments = append(f.Arguments, iv)
	}
	return f, nil
}

// ParseTypeRef parses a type reference in GraphQL notation and resolves it against the registry.
func (s *Schema) ParseTypeRef(ref string) (types.Type, error) {
	l := common.NewLexer(ref)
	var t ast.Type
	if err := l.Try(func() {
		l.Next()
		t = l.Type()
		if l.Peek() != scanner.EOF {
			l.Errorf("unexpected trailing input in type reference")
		}
	}); err != nil {
		return nil, errors.Wrapf(err, "type reference %q", ref)
	}
	return s.ResolveRef(t)
}

// ResolveRef resolves a parsed type reference. Unknown names yield an *UnknownTypeError.
func (s *Schema) ResolveRef(t ast.Type) (types.Type, error) {
	switch t := t.(type) {
	case *ast.List:
		ofType, err := s.ResolveRef(t.OfType)
		if err != nil {
			return nil, err
		}
		return &types.List{OfType: ofType}, nil
	case *ast.NonNull:
		ofType, err := s.ResolveRef(t.OfType)
		if err != nil {
			return nil, err
		}
		return &types.NonNull{OfType: ofType}, nil
	case *ast.TypeName:
		return s.Resolve(t.Name)
	default:
		return nil, errors.Errorf("unexpected type reference %T", t)
	}
}
