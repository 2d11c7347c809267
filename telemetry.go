package graphql

import (
	"github.com/graph-gophers/graphql-fn/ast"
	"github.com/graph-gophers/graphql-fn/errors"
	"github.com/graph-gophers/graphql-fn/internal/query"
	"github.com/graph-gophers/graphql-fn/internal/validation"
)

// LoggedOperation summarizes one operation of a document for request logs.
//
// Variables holds declared defaults only; the values a client sends may be sensitive. Depth is
// the deepest field nesting, counting fields inside fragments at the depth they are spread.
type LoggedOperation struct {
	Name      string `json:",omitempty"`
	Type      ast.OperationType
	Variables map[string]string `json:",omitempty"`
	Fields    []LoggedField     `json:",omitempty"`
	Fragments []string          `json:",omitempty"`
	Depth     int
}

// LoggedField is a root field with its arguments as written in the document.
type LoggedField struct {
	Name      string
	Arguments map[string]string `json:",omitempty"`
}

// ValidateAndLog validates queryString without executing it and summarizes its operations.
// The summary is nil when the document does not parse and empty when it is invalid.
func (e *Engine) ValidateAndLog(queryString string) ([]*errors.QueryError, []LoggedOperation) {
	doc, qErr := query.Parse(queryString)
	if qErr != nil {
		return []*errors.QueryError{qErr}, nil
	}
	if errs := validation.Validate(e.schema, doc, e.maxDepth); len(errs) != 0 {
		return errs, []LoggedOperation{}
	}

	ops := make([]LoggedOperation, 0, len(doc.Operations))
	for _, op := range doc.Operations {
		ops = append(ops, summarize(doc, op))
	}
	return nil, ops
}

func summarize(doc *ast.Document, op *ast.OperationDefinition) LoggedOperation {
	lop := LoggedOperation{Name: op.Name.Name, Type: op.Type}
	for _, v := range op.Vars {
		if v.Default == nil {
			continue
		}
		if lop.Variables == nil {
			lop.Variables = make(map[string]string)
		}
		lop.Variables[v.Name.Name] = v.Default.String()
	}

	for _, sel := range op.Selections {
		f, ok := sel.(*ast.Field)
		if !ok {
			continue
		}
		lf := LoggedField{Name: f.Name.Name}
		for _, arg := range f.Arguments {
			if lf.Arguments == nil {
				lf.Arguments = make(map[string]string, len(f.Arguments))
			}
			lf.Arguments[arg.Name.Name] = arg.Value.String()
		}
		lop.Fields = append(lop.Fields, lf)
	}

	w := &depthWalker{doc: doc, spread: make(map[string]bool)}
	lop.Depth = w.walk(op.Selections, 0)
	lop.Fragments = w.names
	return lop
}

// depthWalker measures nesting and collects spread fragments in first-spread order. Validation
// has already ruled out spread cycles.
type depthWalker struct {
	doc    *ast.Document
	spread map[string]bool
	names  []string
}

func (w *depthWalker) walk(sels ast.SelectionSet, depth int) int {
	deepest := depth
	for _, sel := range sels {
		d := depth
		switch sel := sel.(type) {
		case *ast.Field:
			d = w.walk(sel.SelectionSet, depth+1)
		case *ast.InlineFragment:
			d = w.walk(sel.Selections, depth)
		case *ast.FragmentSpread:
			if !w.spread[sel.Name.Name] {
				w.spread[sel.Name.Name] = true
				w.names = append(w.names, sel.Name.Name)
			}
			if frag := w.doc.Fragments.Get(sel.Name.Name); frag != nil {
				d = w.walk(frag.Selections, depth)
			}
		}
		if d > deepest {
			deepest = d
		}
	}
	return deepest
}
