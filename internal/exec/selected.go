package exec

import (
	"github.com/graph-gophers/graphql-fn/ast"
	"github.com/graph-gophers/graphql-fn/types"
)

// fieldToExec is one response key of a selection set. Fields that share a response key are
// merged: the first occurrence supplies the arguments, and the sub-selections of all of them
// are concatenated.
type fieldToExec struct {
	alias    string
	def      *types.FieldDefinition
	fields   []*ast.Field
	sels     ast.SelectionSet
	typename bool
}

// collectFields flattens sels for an object of type obj into its response keys, in order of
// first occurrence. Skipped selections and fragments on other types are left out.
//
// https://spec.graphql.org/draft/#CollectFields()
func (r *Request) collectFields(obj *types.ObjectTypeDefinition, sels ast.SelectionSet) []*fieldToExec {
	byAlias := fieldMaps.get()
	defer fieldMaps.put(byAlias)

	var fields []*fieldToExec
	r.applySelectionSet(obj, sels, &fields, byAlias, make(map[string]struct{}))
	return fields
}

func (r *Request) applySelectionSet(obj *types.ObjectTypeDefinition, sels ast.SelectionSet, fields *[]*fieldToExec, byAlias map[string]*fieldToExec, visited map[string]struct{}) {
	for _, sel := range sels {
		switch sel := sel.(type) {
		case *ast.Field:
			if r.skipByDirective(sel.Directives) {
				continue
			}

			alias := sel.ResponseKey()
			f, ok := byAlias[alias]
			if !ok {
				f = &fieldToExec{alias: alias}
				if sel.Name.Name == "__typename" {
					f.def = types.TypenameField
					f.typename = true
				} else {
					f.def = obj.Fields.Get(sel.Name.Name)
				}
				byAlias[alias] = f
				*fields = append(*fields, f)
			}
			f.fields = append(f.fields, sel)
			f.sels = append(f.sels, sel.SelectionSet...)

		case *ast.InlineFragment:
			if r.skipByDirective(sel.Directives) {
				continue
			}
			if sel.On.Name != "" && sel.On.Name != obj.Name {
				continue
			}
			r.applySelectionSet(obj, sel.Selections, fields, byAlias, visited)

		case *ast.FragmentSpread:
			if r.skipByDirective(sel.Directives) {
				continue
			}
			if _, ok := visited[sel.Name.Name]; ok {
				continue
			}
			visited[sel.Name.Name] = struct{}{}
			frag := r.Doc.Fragments.Get(sel.Name.Name)
			if frag == nil || frag.On.Name != obj.Name {
				continue
			}
			r.applySelectionSet(obj, frag.Selections, fields, byAlias, visited)

		default:
			panic("invalid type")
		}
	}
}

func (r *Request) skipByDirective(directives ast.DirectiveList) bool {
	if d := directives.Get("skip"); d != nil {
		if v, ok := d.Arguments.Get("if"); ok {
			if b, _ := v.Deserialize(r.Vars).(bool); b {
				return true
			}
		}
	}

	if d := directives.Get("include"); d != nil {
		if v, ok := d.Arguments.Get("if"); ok {
			if b, _ := v.Deserialize(r.Vars).(bool); !b {
				return true
			}
		}
	}

	return false
}
