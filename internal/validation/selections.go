package validation

import (
	"github.com/graph-gophers/graphql-fn/ast"
	"github.com/graph-gophers/graphql-fn/errors"
	"github.com/graph-gophers/graphql-fn/types"
)

// checkDepth reports fields nested deeper than maxDepth and returns whether any were found.
// A branch stops at its first offending field. Fragments are entered once per operation so
// spread cycles cannot recurse forever.
func (v *validator) checkDepth() bool {
	if v.maxDepth <= 0 {
		return false
	}
	for _, op := range v.doc.Operations {
		v.depth(op.Selections, 1, make(map[*ast.FragmentDefinition]bool))
	}
	return len(v.errs) != 0
}

func (v *validator) depth(sels ast.SelectionSet, level int, entered map[*ast.FragmentDefinition]bool) {
	for _, sel := range sels {
		switch sel := sel.(type) {
		case *ast.Field:
			if level > v.maxDepth {
				v.report(sel.Alias.Loc, errors.ValidationError, "Field %q has depth %d that exceeds max depth %d", sel.Name.Name, level, v.maxDepth)
				continue
			}
			v.depth(sel.SelectionSet, level+1, entered)

		case *ast.InlineFragment:
			v.depth(sel.Selections, level, entered)

		case *ast.FragmentSpread:
			frag := v.doc.Fragments.Get(sel.Name.Name)
			if frag == nil || entered[frag] {
				continue
			}
			entered[frag] = true
			v.depth(frag.Selections, level, entered)
		}
	}
}

// checkSelectionSet validates sels as selections on t. A nil t means the type is already known
// to be wrong; nested selections are still walked for variables and fragments but their field
// names are not checked again.
func (v *validator) checkSelectionSet(sc scope, sels ast.SelectionSet, t *types.ObjectTypeDefinition) {
	for _, sel := range sels {
		switch sel := sel.(type) {
		case *ast.Field:
			v.checkField(sc, sel, t)
		case *ast.InlineFragment:
			v.checkInlineFragment(sc, sel, t)
		case *ast.FragmentSpread:
			v.checkSpread(sc, sel, t)
		}
	}

	v.sets = append(v.sets, sels)
}

func (v *validator) checkField(sc scope, f *ast.Field, parent *types.ObjectTypeDefinition) {
	v.checkDirectives(sc, "FIELD", f.Directives)
	v.checkArgumentLiterals(sc, f.Arguments)

	name := f.Name.Name
	def := v.fieldDefinition(f, parent)
	if def == nil {
		if f.SelectionSet != nil {
			v.checkSelectionSet(sc, f.SelectionSet, nil)
		}
		return
	}

	owner := name
	if parent != nil {
		owner = parent.Name + "." + name
	}
	v.checkArguments(sc, f.Arguments, def.Arguments, f.Alias.Loc, "field", owner)

	composite := types.HasSubfields(def.Type)
	switch {
	case composite && f.SelectionSet == nil:
		v.report(f.Alias.Loc, errors.ValidationError, "Field %q of type %q must have a selection of subfields. Did you mean \"%s { ... }\"?", name, def.Type, name)
	case !composite && f.SelectionSet != nil:
		v.report(f.SelectionSetLoc, errors.ValidationError, "Field %q must not have a selection since type %q has no subfields.", name, def.Type)
	}
	if f.SelectionSet != nil {
		obj, _ := types.Unwrap(def.Type).(*types.ObjectTypeDefinition)
		v.checkSelectionSet(sc, f.SelectionSet, obj)
	}
}

// fieldDefinition looks the field up on parent and remembers the result for overlap checks.
func (v *validator) fieldDefinition(f *ast.Field, parent *types.ObjectTypeDefinition) *types.FieldDefinition {
	var def *types.FieldDefinition
	switch {
	case f.Name.Name == types.TypenameField.Name:
		def = types.TypenameField
	case parent != nil:
		def = parent.Fields.Get(f.Name.Name)
		if def == nil {
			v.report(f.Name.Loc, errors.UnknownFieldError, "%s", f.Name.Name)
		}
	}
	v.fieldDefs[f] = def
	return def
}

func (v *validator) checkInlineFragment(sc scope, frag *ast.InlineFragment, t *types.ObjectTypeDefinition) {
	v.checkDirectives(sc, "INLINE_FRAGMENT", frag.Directives)
	if frag.On.Name != "" {
		cond := v.conditionType(frag.On)
		if cond != nil && t != nil && cond != t {
			v.report(frag.Loc, errors.ValidationError, "Fragment cannot be spread here as objects of type %q can never be of type %q.", t, cond)
		}
		t = cond
	}
	v.checkSelectionSet(sc, frag.Selections, t)
}

// checkSpread only checks that the fragment exists and fits here; its selections are validated
// once, with the fragment definitions.
func (v *validator) checkSpread(sc scope, spread *ast.FragmentSpread, t *types.ObjectTypeDefinition) {
	v.checkDirectives(sc, "FRAGMENT_SPREAD", spread.Directives)
	frag := v.doc.Fragments.Get(spread.Name.Name)
	if frag == nil {
		v.report(spread.Name.Loc, errors.UnknownFragmentError, "%s", spread.Name.Name)
		return
	}
	if cond := v.schema.Object(frag.On.Name); cond != nil && t != nil && cond != t {
		v.report(spread.Loc, errors.ValidationError, "Fragment %q cannot be spread here as objects of type %q can never be of type %q.", frag.Name.Name, t, cond)
	}
}

// conditionType resolves a fragment type condition. Only object types can be conditioned on.
func (v *validator) conditionType(on ast.TypeName) *types.ObjectTypeDefinition {
	t := v.schema.Lookup(on.Name)
	if t == nil {
		v.report(on.Loc, errors.ValidationError, "Unknown type %q.", on.Name)
		return nil
	}
	obj, ok := t.(*types.ObjectTypeDefinition)
	if !ok {
		v.report(on.Loc, errors.ValidationError, "Fragment cannot condition on non composite type %q.", t)
		return nil
	}
	return obj
}
