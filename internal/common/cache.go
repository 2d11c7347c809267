package common

import "sync"

// Cache memoizes values that are computed once per key, such as reflection lookups.
// Concurrent misses may each compute the value; the first one stored wins.
type Cache struct {
	m sync.Map
}

func (c *Cache) GetOrElseUpdate(key interface{}, create func() interface{}) interface{} {
	if v, ok := c.m.Load(key); ok {
		return v
	}
	v, _ := c.m.LoadOrStore(key, create())
	return v
}
