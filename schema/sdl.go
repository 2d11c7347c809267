package schema

import (
	"github.com/pkg/errors"
	gqlast "github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// ParseSDL reads schema definition language into a Builder. Only object types, scalars,
// object extensions and the schema block are accepted; the engine has no interfaces, unions,
// enums or input objects.
func ParseSDL(sdl string) (*Builder, error) {
	doc, err := parser.ParseSchema(&gqlast.Source{Name: "schema.graphql", Input: sdl})
	if err != nil {
		return nil, errors.Wrap(err, "parse schema")
	}

	b := NewBuilder()
	for _, def := range doc.Definitions {
		switch def.Kind {
		case gqlast.Object:
			if def.Name == "Subscription" {
				return nil, errors.New("subscriptions are not supported")
			}
			o := b.Object(def.Name).Description(def.Description)
			if err := addSDLFields(o, def.Fields); err != nil {
				return nil, errors.Wrapf(err, "type %q", def.Name)
			}
		case gqlast.Scalar:
			b.Scalar(def.Name, nil, nil)
		default:
			return nil, errors.Errorf("%s %q: kind is not supported", def.Kind, def.Name)
		}
	}

	for _, ext := range doc.Extensions {
		if ext.Kind != gqlast.Object {
			return nil, errors.Errorf("extend %s %q: kind is not supported", ext.Kind, ext.Name)
		}
		o := b.Extend(ext.Name)
		if o == nil {
			return nil, errors.Errorf("extend type %q: type is not declared", ext.Name)
		}
		if err := addSDLFields(o, ext.Fields); err != nil {
			return nil, errors.Wrapf(err, "extend type %q", ext.Name)
		}
	}

	for _, sd := range append(doc.Schema, doc.SchemaExtension...) {
		for _, ot := range sd.OperationTypes {
			switch ot.Operation {
			case gqlast.Query:
				b.Query(ot.Type)
			case gqlast.Mutation:
				b.Mutation(ot.Type)
			default:
				return nil, errors.Errorf("%s operations are not supported", ot.Operation)
			}
		}
	}
	if len(doc.Schema) == 0 && b.Extend("Mutation") != nil {
		b.Mutation("Mutation")
	}
	return b, nil
}

// MustParseSDL is like ParseSDL followed by Build, but panics on error.
func MustParseSDL(sdl string) *Schema {
	b, err := ParseSDL(sdl)
	if err != nil {
		panic(err)
	}
	return b.MustBuild()
}

func addSDLFields(o *ObjectBuilder, fields gqlast.FieldList) error {
	for _, f := range fields {
		var args []ArgDef
		for _, a := range f.Arguments {
			arg := ArgDef{Name: a.Name, TypeRef: a.Type.String(), Desc: a.Description}
			if a.DefaultValue != nil {
				def, err := a.DefaultValue.Value(nil)
				if err != nil {
					return errors.Wrapf(err, "field %q argument %q default", f.Name, a.Name)
				}
				arg.Default = def
				arg.HasDefault = true
			}
			args = append(args, arg)
		}
		o.FieldDesc(f.Name, f.Type.String(), f.Description, args...)
	}
	return nil
}
