package exec

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/graph-gophers/graphql-fn/ast"
	"github.com/graph-gophers/graphql-fn/errors"
	internalctx "github.com/graph-gophers/graphql-fn/internal/context"
	"github.com/graph-gophers/graphql-fn/log"
	"github.com/graph-gophers/graphql-fn/resolvers"
	"github.com/graph-gophers/graphql-fn/schema"
	"github.com/graph-gophers/graphql-fn/trace/noop"
	"github.com/graph-gophers/graphql-fn/trace/tracer"
	"github.com/graph-gophers/graphql-fn/types"
)

// Request holds everything one execution needs. It is created per request and never shared.
type Request struct {
	Schema    *schema.Schema
	Resolvers *resolvers.Registry
	Doc       *ast.Document
	Vars      map[string]interface{}
	Root      interface{}
	Limiter   *semaphore.Weighted
	Tracer    tracer.Tracer
	Logger    log.Logger

	mu        sync.Mutex
	errs      []*errors.QueryError
	cancelled atomic.Bool
}

func (r *Request) AddError(err *errors.QueryError) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func (r *Request) handlePanic(ctx context.Context) {
	if value := recover(); value != nil {
		r.Logger.LogPanic(ctx, value)
		r.AddError(makePanicError(value))
	}
}

type extensionser interface {
	Extensions() map[string]interface{}
}

func makePanicError(value interface{}) *errors.QueryError {
	err := errors.Errorf("graphql: panic occurred: %v", value)
	err.Rule = errors.ResolverError
	return err
}

// Execute runs op and returns the JSON encoded data together with the errors in document
// order. Query root fields are resolved concurrently, mutation root fields one after another.
// When ctx is done no further resolvers are started, pending fields become null and a single
// DeadlineExceededError is appended.
func (r *Request) Execute(ctx context.Context, op *ast.OperationDefinition) ([]byte, []*errors.QueryError) {
	if r.Tracer == nil {
		r.Tracer = noop.Tracer{}
	}
	if r.Logger == nil {
		r.Logger = log.NewDefaultLogger()
	}

	out := buffers.get()
	defer buffers.put(out)

	func() {
		defer r.handlePanic(ctx)

		root := r.Schema.Query()
		if op.Type == ast.Mutation {
			root = r.Schema.Mutation()
		}
		nodes := r.collectNodes(root, op.Selections, r.Root)

		enc := &encoder{r: r, buf: out}
		obj := enc.object()
		defer obj.close()

		if op.Type == ast.Mutation {
			for _, n := range nodes {
				r.resolveTree(ctx, n)
				obj.member(n)
			}
		} else {
			r.resolveAll(ctx, nodes)
			for _, n := range nodes {
				obj.member(n)
			}
		}
	}()

	if r.cancelled.Load() {
		r.AddError(errors.Kindf(errors.DeadlineExceededError, "%s", ctx.Err()))
	}

	return detach(out), r.errs
}

// execNode is one response position: a field or a list item. Nodes are resolved in any order,
// concurrently where allowed, and written depth-first afterwards.
type execNode struct {
	label      interface{}                 // response key or list index
	parent     *execNode                   // parent node
	children   []*execNode                 // child nodes
	typ        types.Type                  // GraphQL type of the node
	parentType *types.ObjectTypeDefinition // type owning the field
	field      *fieldToExec                // field information, shared by list items
	source     interface{}                 // parent value handed to the resolver
	value      interface{}                 // resolved value
	err        *errors.QueryError          // error while resolving the value
	cancelled  bool                        // the context was done before the value was resolved
}

// fullPath is the response path of n, used in errors and resolver info.
func (n *execNode) fullPath() []interface{} {
	if n == nil {
		return nil
	}
	return append(n.parent.fullPath(), n.label)
}

func (n *execNode) add(cs []*execNode) {
	for i := range cs {
		cs[i].parent = n
	}
	n.children = append(n.children, cs...)
}

// collectNodes turns the selections on an object into one node per response key.
func (r *Request) collectNodes(obj *types.ObjectTypeDefinition, sels ast.SelectionSet, source interface{}) []*execNode {
	fields := r.collectFields(obj, sels)
	nodes := make([]*execNode, len(fields))
	for i, f := range fields {
		nodes[i] = &execNode{
			label:      f.alias,
			typ:        f.def.Type,
			parentType: obj,
			field:      f,
			source:     source,
		}
	}
	return nodes
}

// resolveAll resolves sibling subtrees concurrently. A slow subtree only delays itself.
func (r *Request) resolveAll(ctx context.Context, nodes []*execNode) {
	switch len(nodes) {
	case 0:
		return
	case 1:
		r.resolveTree(ctx, nodes[0])
		return
	}

	var g errgroup.Group
	for _, n := range nodes {
		n := n
		g.Go(func() error {
			r.resolveTree(ctx, n)
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Request) resolveTree(ctx context.Context, n *execNode) {
	defer r.recoverNode(ctx, n)
	if !n.isItem() {
		r.resolveNode(ctx, n)
	}
	r.expandNode(n)
	r.resolveAll(ctx, n.children)
}

func (r *Request) resolveNode(ctx context.Context, n *execNode) {
	f := n.field
	if f.typename {
		n.value = n.parentType.Name
		return
	}
	if ctx.Err() != nil {
		r.cancel(n)
		return
	}

	args, err := coerceArguments(f.fields[0].Arguments, f.def.Arguments, r.Vars)
	if err != nil {
		n.err = errors.Errorf("%s", err)
		n.err.Path = n.fullPath()
		n.err.Locations = []errors.Location{f.fields[0].Name.Loc}
		return
	}

	fn, bound := r.Resolvers.Lookup(n.parentType.Name, f.def.Name)
	if !bound {
		fieldName := f.def.Name
		fn = func(ctx context.Context, p resolvers.Params) (interface{}, error) {
			return resolvers.Default(ctx, p.Parent, fieldName)
		}
	}

	if r.Limiter != nil {
		if err := r.Limiter.Acquire(ctx, 1); err != nil {
			r.cancel(n)
			return
		}
		defer r.Limiter.Release(1)
	}

	p := resolvers.Params{
		Parent: n.source,
		Args:   args,
		Info: resolvers.Info{
			TypeName:  n.parentType.Name,
			FieldName: f.def.Name,
			Alias:     f.alias,
			Path:      n.fullPath(),
			Variables: r.Vars,
			Root:      r.Root,
		},
	}

	traceCtx, finish := r.Tracer.TraceField(ctx, tracer.Field{
		TypeName:  p.Info.TypeName,
		FieldName: p.Info.FieldName,
		Path:      p.Info.Path,
		Args:      args,
		Bound:     bound,
	})
	fieldCtx := internalctx.WithField(traceCtx, &p.Info)

	type result struct {
		value interface{}
		err   *errors.QueryError
	}
	call := func() (res result) {
		defer func() {
			if panicValue := recover(); panicValue != nil {
				r.Logger.LogPanic(fieldCtx, panicValue)
				res.err = makePanicError(panicValue)
				res.err.Path = p.Info.Path
			}
		}()
		value, err := fn(fieldCtx, p)
		if err != nil {
			return result{err: resolverError(err, p.Info.Path, f.fields[0])}
		}
		return result{value: value}
	}

	var res result
	if ctx.Done() == nil {
		res = call()
	} else {
		done := make(chan result, 1)
		go func() { done <- call() }()
		select {
		case res = <-done:
		case <-ctx.Done():
			finish(nil)
			r.cancel(n)
			return
		}
	}

	finish(res.err)
	n.value, n.err = res.value, res.err
}

// recoverNode records a panic raised outside the resolver call on n, so the encoder reports it
// in document order at n's path. Resolver panics are caught closer to the call.
func (r *Request) recoverNode(ctx context.Context, n *execNode) {
	value := recover()
	if value == nil {
		return
	}
	r.Logger.LogPanic(ctx, value)
	err := makePanicError(value)
	err.Path = n.fullPath()
	err.Locations = []errors.Location{n.field.fields[0].Name.Loc}
	n.err = err
}

func (r *Request) cancel(n *execNode) {
	n.cancelled = true
	r.cancelled.Store(true)
}

func resolverError(err error, path []interface{}, field *ast.Field) *errors.QueryError {
	qErr := errors.Errorf("%s", err)
	qErr.Rule = errors.ResolverError
	qErr.ResolverError = err
	qErr.Path = path
	qErr.Locations = []errors.Location{field.Name.Loc}
	if ex, ok := err.(extensionser); ok {
		qErr.Extensions = ex.Extensions()
	}
	return qErr
}

// expandNode creates the unresolved children of a resolved node: one node per response key for
// objects, one per element for lists.
func (r *Request) expandNode(n *execNode) {
	if n.err != nil || n.cancelled || isNull(n.value) {
		return
	}
	t, _ := types.UnwrapNonNull(n.typ)
	switch t := t.(type) {
	case *types.ScalarTypeDefinition:
	case *types.ObjectTypeDefinition:
		n.add(r.collectNodes(t, n.field.sels, n.value))
	case *types.List:
		value := reflect.ValueOf(n.value)
		for value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface {
			value = value.Elem()
		}
		if value.Kind() != reflect.Slice && value.Kind() != reflect.Array {
			n.err = fieldError(n, "expected a list for %s, got %T", n.typ, n.value)
			return
		}
		children := make([]*execNode, value.Len())
		for i := range children {
			children[i] = &execNode{
				label:      i,
				value:      value.Index(i).Interface(),
				typ:        t.OfType,
				parentType: n.parentType,
				field:      n.field,
			}
		}
		n.add(children)
	default:
		panic(fmt.Sprintf("unknown schema type %T", t))
	}
}

// isItem reports whether n is a list element. Items carry the field of their list for its
// sub-selections but are never resolved on their own.
func (n *execNode) isItem() bool {
	_, ok := n.label.(int)
	return ok
}

// isNull checks whatever a value is nil or a nil pointer, map, slice or interface.
func isNull(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
