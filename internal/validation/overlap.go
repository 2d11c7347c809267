package validation

import (
	"fmt"
	"strings"

	"github.com/graph-gophers/graphql-fn/ast"
	"github.com/graph-gophers/graphql-fn/errors"
	"github.com/graph-gophers/graphql-fn/types"
)

// conflict collects why two fields with the same response key cannot be merged.
type conflict struct {
	reasons []string
	locs    []errors.Location
}

func (v *validator) checkOverlaps(sels ast.SelectionSet) {
	for i := range sels {
		for j := i + 1; j < len(sels); j++ {
			v.checkOverlap(sels[i], sels[j], nil)
		}
	}
}

// checkOverlap compares two selections of one selection set, expanding fragments until two
// fields meet. With a nil c a conflict is reported; otherwise it is added to c as the reason
// its parent fields conflict.
func (v *validator) checkOverlap(a, b ast.Selection, c *conflict) {
	if a == b || v.compared[[2]ast.Selection{a, b}] {
		return
	}
	v.compared[[2]ast.Selection{a, b}] = true
	v.compared[[2]ast.Selection{b, a}] = true

	if sels, ok := v.expand(a); ok {
		for _, sel := range sels {
			v.checkOverlap(sel, b, c)
		}
		return
	}
	if sels, ok := v.expand(b); ok {
		for _, sel := range sels {
			v.checkOverlap(a, sel, c)
		}
		return
	}

	fa, fb := a.(*ast.Field), b.(*ast.Field)
	if fb.Alias.Loc.Before(fa.Alias.Loc) {
		fa, fb = fb, fa
	}
	found := v.fieldConflict(fa, fb)
	if found == nil {
		return
	}
	found.locs = append(found.locs, fa.Alias.Loc, fb.Alias.Loc)

	if c == nil {
		v.reportAt(found.locs, errors.ValidationError, "Fields %q conflict because %s. Use different aliases on the fields to fetch both if this was intentional.", fa.Alias.Name, strings.Join(found.reasons, " and "))
		return
	}
	for _, r := range found.reasons {
		c.reasons = append(c.reasons, fmt.Sprintf("subfields %q conflict because %s", fa.Alias.Name, r))
	}
	c.locs = append(c.locs, found.locs...)
}

// expand returns the selections behind a fragment. ok is false for fields.
func (v *validator) expand(sel ast.Selection) (ast.SelectionSet, bool) {
	switch sel := sel.(type) {
	case *ast.InlineFragment:
		return sel.Selections, true
	case *ast.FragmentSpread:
		if frag := v.doc.Fragments.Get(sel.Name.Name); frag != nil {
			return frag.Selections, true
		}
		return nil, true
	default:
		return nil, false
	}
}

func (v *validator) fieldConflict(a, b *ast.Field) *conflict {
	if a.Alias.Name != b.Alias.Name {
		return nil
	}
	da, db := v.fieldDefs[a], v.fieldDefs[b]
	if da != nil && db != nil && !sameShape(da.Type, db.Type) {
		return &conflict{reasons: []string{fmt.Sprintf("they return conflicting types %s and %s", da.Type, db.Type)}}
	}
	if a.Name.Name != b.Name.Name {
		return &conflict{reasons: []string{fmt.Sprintf("%s and %s are different fields", a.Name.Name, b.Name.Name)}}
	}
	if !sameArguments(a.Arguments, b.Arguments) {
		return &conflict{reasons: []string{"they have differing arguments"}}
	}

	nested := &conflict{}
	for _, sa := range a.SelectionSet {
		for _, sb := range b.SelectionSet {
			v.checkOverlap(sa, sb, nested)
		}
	}
	if len(nested.reasons) == 0 {
		return nil
	}
	return nested
}

// sameShape reports whether two field types can share one response entry: identical list and
// non-null wrapping around the same scalar, or around any two object types.
func sameShape(a, b types.Type) bool {
	for {
		switch at := a.(type) {
		case *types.List:
			bt, ok := b.(*types.List)
			if !ok {
				return false
			}
			a, b = at.OfType, bt.OfType
		case *types.NonNull:
			bt, ok := b.(*types.NonNull)
			if !ok {
				return false
			}
			a, b = at.OfType, bt.OfType
		default:
			switch b.(type) {
			case *types.List, *types.NonNull:
				return false
			}
			if types.IsLeaf(a) || types.IsLeaf(b) {
				return a == b
			}
			return true
		}
	}
}

func sameArguments(a, b ast.ArgumentList) bool {
	if len(a) != len(b) {
		return false
	}
	for _, arg := range a {
		other, ok := b.Get(arg.Name.Name)
		if !ok || arg.Value.String() != other.String() {
			return false
		}
	}
	return true
}
