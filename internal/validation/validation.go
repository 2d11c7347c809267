// Package validation checks a parsed document against a schema. A document with any
// validation error is never executed.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/graph-gophers/graphql-fn/ast"
	"github.com/graph-gophers/graphql-fn/errors"
	"github.com/graph-gophers/graphql-fn/schema"
	"github.com/graph-gophers/graphql-fn/types"
)

// rank orders error kinds in the response. Kinds not listed come last.
var rank = map[string]int{
	errors.UnknownFieldError:       1,
	errors.UnknownArgumentError:    2,
	errors.MissingArgumentError:    2,
	errors.UnknownFragmentError:    3,
	errors.FragmentCycleError:      3,
	errors.UndeclaredVariableError: 4,
}

func kindRank(kind string) int {
	if r, ok := rank[kind]; ok {
		return r
	}
	return len(rank)
}

type nameSet map[string]errors.Location

// scope lists the operations a selection set is validated for. An operation's own selections
// have a scope of one; a fragment belongs to every operation that spreads it.
type scope []*ast.OperationDefinition

type validator struct {
	schema   *schema.Schema
	doc      *ast.Document
	maxDepth int
	errs     []*errors.QueryError

	// undeclared holds undeclared variable errors per operation until every fragment has been
	// walked, so they are listed by operation.
	undeclared map[*ast.OperationDefinition][]*errors.QueryError
	used       map[*ast.OperationDefinition]map[*ast.VariableDefinition]bool
	fieldDefs  map[*ast.Field]*types.FieldDefinition

	// sets are compared for overlapping fields once every field definition is known.
	sets     []ast.SelectionSet
	compared map[[2]ast.Selection]bool
}

// Validate checks doc against s and returns every problem found. Errors are grouped by kind:
// unknown fields first, then argument errors, fragment errors, undeclared variables and finally
// all other validation errors. Within a group errors keep document order. A maxDepth of 0
// disables the depth limit; a document that exceeds it is not checked any further.
func Validate(s *schema.Schema, doc *ast.Document, maxDepth int) []*errors.QueryError {
	v := &validator{
		schema:     s,
		doc:        doc,
		maxDepth:   maxDepth,
		undeclared: make(map[*ast.OperationDefinition][]*errors.QueryError),
		used:       make(map[*ast.OperationDefinition]map[*ast.VariableDefinition]bool),
		fieldDefs:  make(map[*ast.Field]*types.FieldDefinition),
		compared:   make(map[[2]ast.Selection]bool),
	}
	if v.checkDepth() {
		return v.errs
	}

	spreaders := v.checkOperations()
	v.checkFragments(spreaders)
	for _, sels := range v.sets {
		v.checkOverlaps(sels)
	}
	v.checkVariableUse()

	sort.SliceStable(v.errs, func(i, j int) bool {
		return kindRank(v.errs[i].Rule) < kindRank(v.errs[j].Rule)
	})
	return v.errs
}

func (v *validator) report(loc errors.Location, kind string, format string, a ...interface{}) {
	v.reportAt([]errors.Location{loc}, kind, format, a...)
}

func (v *validator) reportAt(locs []errors.Location, kind string, format string, a ...interface{}) {
	err := errors.Kindf(kind, format, a...)
	err.Locations = locs
	v.errs = append(v.errs, err)
}

func (v *validator) unique(set nameSet, name ast.Ident, kind string) {
	if first, dup := set[name.Name]; dup {
		v.reportAt([]errors.Location{first, name.Loc}, errors.ValidationError, "There can be only one %s named %q.", kind, name.Name)
		return
	}
	set[name.Name] = name.Loc
}

// checkOperations validates every operation and returns, for each fragment, the operations that
// reach it.
func (v *validator) checkOperations() map[*ast.FragmentDefinition]scope {
	spreaders := make(map[*ast.FragmentDefinition]scope)
	names := make(nameSet)
	for _, op := range v.doc.Operations {
		v.used[op] = make(map[*ast.VariableDefinition]bool)
		sc := scope{op}

		if op.Name.Name == "" {
			if len(v.doc.Operations) > 1 {
				v.report(op.Loc, errors.ValidationError, "This anonymous operation must be the only defined operation.")
			}
		} else {
			v.unique(names, op.Name, "operation")
		}

		v.checkDirectives(sc, strings.ToUpper(string(op.Type)), op.Directives)
		v.checkVariableDefinitions(sc, op)

		if root := rootType(v.schema, op.Type); root != nil {
			v.checkSelectionSet(sc, op.Selections, root)
		} else {
			v.report(op.Loc, errors.ValidationError, "Schema is not configured for %ss.", op.Type)
		}

		for _, frag := range v.reachableFragments(op.Selections) {
			spreaders[frag] = append(spreaders[frag], op)
		}
	}
	return spreaders
}

func (v *validator) checkVariableDefinitions(sc scope, op *ast.OperationDefinition) {
	names := make(nameSet)
	for _, decl := range op.Vars {
		v.unique(names, decl.Name, "variable")

		t := v.resolveType(decl.Type, decl.TypeLoc)
		if t != nil && !types.IsInput(t) {
			v.report(decl.TypeLoc, errors.ValidationError, "Variable %q cannot be non-input type %q.", "$"+decl.Name.Name, t)
			t = nil
		}
		if decl.Default == nil {
			continue
		}
		v.checkLiteral(sc, decl.Default)
		if t == nil {
			continue
		}
		if ok, reason := v.valueFits(sc, decl.Default, t); !ok {
			v.report(decl.Default.Location(), errors.ValidationError, "Variable %q of type %q has invalid default value %s. %s", "$"+decl.Name.Name, t, decl.Default, reason)
		}
	}
}

// checkVariableUse flushes undeclared variable errors and reports declared variables that no
// selection of their operation uses.
func (v *validator) checkVariableUse() {
	for _, op := range v.doc.Operations {
		v.errs = append(v.errs, v.undeclared[op]...)

		in := ""
		if op.Name.Name != "" {
			in = fmt.Sprintf(" in operation %q", op.Name.Name)
		}
		for _, decl := range op.Vars {
			if !v.used[op][decl] {
				v.report(decl.Loc, errors.ValidationError, "Variable %q is never used%s.", "$"+decl.Name.Name, in)
			}
		}
	}
}

func (v *validator) resolveType(ref ast.Type, loc errors.Location) types.Type {
	t, err := v.schema.ResolveRef(ref)
	if err == nil {
		return t
	}
	if unknown, ok := err.(*schema.UnknownTypeError); ok {
		v.report(loc, errors.ValidationError, "Unknown type %q.", unknown.Name)
	} else {
		v.report(loc, errors.ValidationError, "%s", err)
	}
	return nil
}

// Operation picks the operation to execute. An empty name is only allowed when the document
// holds a single operation.
func Operation(doc *ast.Document, operationName string) (*ast.OperationDefinition, *errors.QueryError) {
	switch {
	case len(doc.Operations) == 0:
		return nil, errors.Kindf(errors.ValidationError, "no operations in query document")
	case operationName != "":
		if op := doc.Operations.Get(operationName); op != nil {
			return op, nil
		}
		return nil, errors.Kindf(errors.ValidationError, "no operation with name %q", operationName)
	case len(doc.Operations) > 1:
		return nil, errors.Kindf(errors.ValidationError, "more than one operation in query document and no operation name given")
	default:
		return doc.Operations[0], nil
	}
}

func rootType(s *schema.Schema, t ast.OperationType) *types.ObjectTypeDefinition {
	switch t {
	case ast.Query:
		return s.Query()
	case ast.Mutation:
		return s.Mutation()
	default:
		return nil
	}
}
