package validation

import (
	"strings"

	"github.com/graph-gophers/graphql-fn/ast"
	"github.com/graph-gophers/graphql-fn/errors"
)

// checkFragments validates each fragment definition once, for all operations that spread it,
// then reports spread cycles and fragments no operation uses.
func (v *validator) checkFragments(spreaders map[*ast.FragmentDefinition]scope) {
	names := make(nameSet)
	for _, frag := range v.doc.Fragments {
		sc := spreaders[frag]
		v.unique(names, frag.Name, "fragment")
		v.checkDirectives(sc, "FRAGMENT_DEFINITION", frag.Directives)
		v.checkSelectionSet(sc, frag.Selections, v.conditionType(frag.On))
	}

	done := make(map[*ast.FragmentDefinition]bool)
	for _, frag := range v.doc.Fragments {
		if done[frag] {
			continue
		}
		done[frag] = true
		w := &cycleWalker{v: v, done: done, onPath: map[string]int{frag.Name.Name: 0}}
		w.walk(frag.Selections)
	}

	for _, frag := range v.doc.Fragments {
		if len(spreaders[frag]) == 0 {
			v.report(frag.Loc, errors.ValidationError, "Fragment %q is never used.", frag.Name.Name)
		}
	}
}

// reachableFragments lists the fragments sels spreads, directly or through other fragments,
// in order of first spread.
func (v *validator) reachableFragments(sels ast.SelectionSet) []*ast.FragmentDefinition {
	var out []*ast.FragmentDefinition
	seen := make(map[*ast.FragmentDefinition]bool)

	var visit func(ast.SelectionSet)
	visit = func(sels ast.SelectionSet) {
		for _, sel := range sels {
			switch sel := sel.(type) {
			case *ast.Field:
				visit(sel.SelectionSet)
			case *ast.InlineFragment:
				visit(sel.Selections)
			case *ast.FragmentSpread:
				frag := v.doc.Fragments.Get(sel.Name.Name)
				if frag == nil || seen[frag] {
					continue
				}
				seen[frag] = true
				out = append(out, frag)
				visit(frag.Selections)
			}
		}
	}
	visit(sels)
	return out
}

// cycleWalker follows spreads depth-first. onPath maps each fragment on the current path to the
// length of the spread path when it was entered, so a repeated entry yields the spreads that
// form the cycle.
type cycleWalker struct {
	v      *validator
	done   map[*ast.FragmentDefinition]bool
	path   []*ast.FragmentSpread
	onPath map[string]int
}

func (w *cycleWalker) walk(sels ast.SelectionSet) {
	for _, sel := range sels {
		switch sel := sel.(type) {
		case *ast.Field:
			w.walk(sel.SelectionSet)
		case *ast.InlineFragment:
			w.walk(sel.Selections)
		case *ast.FragmentSpread:
			w.spread(sel)
		}
	}
}

func (w *cycleWalker) spread(s *ast.FragmentSpread) {
	frag := w.v.doc.Fragments.Get(s.Name.Name)
	if frag == nil {
		return
	}

	w.path = append(w.path, s)
	defer func() { w.path = w.path[:len(w.path)-1] }()

	if start, ok := w.onPath[frag.Name.Name]; ok {
		w.v.reportCycle(frag, w.path[start:])
		return
	}
	if w.done[frag] {
		return
	}
	w.done[frag] = true

	w.onPath[frag.Name.Name] = len(w.path)
	w.walk(frag.Selections)
	delete(w.onPath, frag.Name.Name)
}

func (v *validator) reportCycle(frag *ast.FragmentDefinition, cycle []*ast.FragmentSpread) {
	locs := make([]errors.Location, len(cycle))
	via := make([]string, 0, len(cycle)-1)
	for i, s := range cycle {
		locs[i] = s.Loc
		if i < len(cycle)-1 {
			via = append(via, s.Name.Name)
		}
	}
	suffix := ""
	if len(via) != 0 {
		suffix = " via " + strings.Join(via, ", ")
	}
	v.reportAt(locs, errors.FragmentCycleError, "Cannot spread fragment %q within itself%s.", frag.Name.Name, suffix)
}
