package exec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/graph-gophers/graphql-fn/errors"
	"github.com/graph-gophers/graphql-fn/types"
)

// encoder writes a resolved node tree as JSON, depth-first in selection order. Errors are
// recorded on the request in the order the encoder meets them, which is document order.
//
// Every write method returns true when it wrote null for a non-null type. The enclosing list
// or object then rewrites itself as null and passes the flag on if it is non-null too.
type encoder struct {
	r   *Request
	buf *bytes.Buffer
}

func (e *encoder) node(n *execNode) bool {
	t, nonNull := types.UnwrapNonNull(n.typ)
	switch {
	case n.cancelled:
		e.buf.WriteString("null")
		return nonNull
	case n.err != nil:
		e.r.AddError(n.err)
		e.buf.WriteString("null")
		return nonNull
	case isNull(n.value):
		e.buf.WriteString("null")
		if nonNull {
			e.r.AddError(nullError(n))
		}
		return nonNull
	}

	switch t := t.(type) {
	case *types.ScalarTypeDefinition:
		return e.scalar(n, t, nonNull)
	case *types.List:
		return e.list(n, nonNull)
	case *types.ObjectTypeDefinition:
		obj := e.object()
		for _, c := range n.children {
			obj.member(c)
		}
		return obj.close() && nonNull
	default:
		panic(fmt.Sprintf("unknown schema type %T", t))
	}
}

func (e *encoder) scalar(n *execNode, t *types.ScalarTypeDefinition, nonNull bool) bool {
	out, err := t.OutputValue(n.value)
	if err != nil {
		e.r.AddError(fieldError(n, "Cannot serialize %s value: %v", t.Name, err))
		e.buf.WriteString("null")
		return nonNull
	}
	data, err := json.Marshal(out)
	if err != nil {
		e.r.AddError(fieldError(n, "Cannot encode %s value: %v", t.Name, err))
		e.buf.WriteString("null")
		return nonNull
	}
	e.buf.Write(data)
	if nonNull && string(data) == "null" {
		e.r.AddError(nullError(n))
		return true
	}
	return false
}

func (e *encoder) list(n *execNode, nonNull bool) bool {
	start := e.buf.Len()
	bubble := false
	e.buf.WriteByte('[')
	for i, c := range n.children {
		if i != 0 {
			e.buf.WriteByte(',')
		}
		// Later items are still written so their errors are reported.
		if e.node(c) {
			bubble = true
		}
	}
	e.buf.WriteByte(']')
	if !bubble {
		return false
	}
	e.buf.Truncate(start)
	e.buf.WriteString("null")
	return nonNull
}

// objectEncoder writes one member at a time so that mutation root fields can be written as
// soon as each has been resolved.
type objectEncoder struct {
	e       *encoder
	start   int
	members int
	bubble  bool
}

func (e *encoder) object() *objectEncoder {
	return &objectEncoder{e: e, start: e.buf.Len()}
}

func (o *objectEncoder) member(n *execNode) {
	if o.members == 0 {
		o.e.buf.WriteByte('{')
	} else {
		o.e.buf.WriteByte(',')
	}
	o.members++

	key, _ := json.Marshal(n.field.alias)
	o.e.buf.Write(key)
	o.e.buf.WriteByte(':')
	if o.e.node(n) {
		o.bubble = true
	}
}

// close ends the object and reports whether it had to become null.
func (o *objectEncoder) close() bool {
	if o.bubble {
		o.e.buf.Truncate(o.start)
		o.e.buf.WriteString("null")
		return true
	}
	if o.members == 0 {
		o.e.buf.WriteByte('{')
	}
	o.e.buf.WriteByte('}')
	return false
}

func nullError(n *execNode) *errors.QueryError {
	return fieldError(n, "Cannot return null for non-nullable field %s.%s.", n.parentType.Name, n.field.def.Name)
}

func fieldError(n *execNode, format string, a ...interface{}) *errors.QueryError {
	err := errors.Kindf(errors.ResolverError, format, a...)
	err.Path = n.fullPath()
	err.Locations = []errors.Location{n.field.fields[0].Name.Loc}
	return err
}
