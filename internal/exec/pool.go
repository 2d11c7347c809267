package exec

import (
	"bytes"
	"sync"
)

const (
	maxBufferCap    = 64 * 1024
	maxFieldMapSize = 128
)

// recycler hands out reusable values. Values that keep rejects are left to the garbage
// collector; keep also resets the ones it accepts.
type recycler[T any] struct {
	pool  sync.Pool
	fresh func() T
	keep  func(T) bool
}

func (r *recycler[T]) get() T {
	if v, ok := r.pool.Get().(T); ok {
		return v
	}
	return r.fresh()
}

func (r *recycler[T]) put(v T) {
	if r.keep(v) {
		r.pool.Put(v)
	}
}

var buffers = &recycler[*bytes.Buffer]{
	fresh: func() *bytes.Buffer { return new(bytes.Buffer) },
	keep: func(b *bytes.Buffer) bool {
		b.Reset()
		return b.Cap() <= maxBufferCap
	},
}

// fieldMaps index the fields of one selection set by response key while collecting.
var fieldMaps = &recycler[map[string]*fieldToExec]{
	fresh: func() map[string]*fieldToExec { return make(map[string]*fieldToExec, 16) },
	keep: func(m map[string]*fieldToExec) bool {
		if len(m) > maxFieldMapSize {
			return false
		}
		clear(m)
		return true
	},
}

// detach copies the buffer's contents out before the buffer goes back to the pool. An empty
// buffer yields nil.
func detach(b *bytes.Buffer) []byte {
	if b.Len() == 0 {
		return nil
	}
	return bytes.Clone(b.Bytes())
}
