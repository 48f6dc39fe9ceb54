// Package naivememo is the baseline this module measures itself against:
// a cache keyed on the whole input value's identity (its String() form if
// it implements fmt.Stringer, otherwise the value itself via ==), with no notion of which
// parts of the input the wrapped function actually touched. cmd/imprintbench
// runs the same workload through this and through memo.Memoizer to show
// the difference an access-pattern-aware cache makes when callers pass
// structurally-different-but-behaviorally-equivalent inputs.
package naivememo

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Key is whatever a naive cache can use as a map key: a comparable value,
// or a value whose String() form stands in for it.
type Key any

func tableKey(k Key) any {
	if stringer, ok := k.(fmt.Stringer); ok {
		return stringer.String()
	}
	return k
}

// Cache is a bounded, generation-rotating whole-argument cache, the same
// double-buffer eviction shape used elsewhere in this module's constructor
// interning, applied here to memoized call results instead.
type Cache[O any] struct {
	gens    [2]*sync.Map
	headIdx atomic.Uint32
	size    atomic.Uint32
	maxSize uint32
}

// New builds a Cache that holds at most maxSize entries per generation.
func New[O any](maxSize uint32) *Cache[O] {
	if maxSize == 0 {
		panic("naivememo: maxSize must be greater than 0")
	}
	return &Cache[O]{
		gens:    [2]*sync.Map{{}, {}},
		maxSize: maxSize,
	}
}

// Load looks up key across both generations, newest first.
func (c *Cache[O]) Load(key Key) (O, bool) {
	k := tableKey(key)
	head := c.headIdx.Load()
	if v, ok := c.gens[head].Load(k); ok {
		return v.(O), true
	}
	if v, ok := c.gens[1-head].Load(k); ok {
		return v.(O), true
	}
	var zero O
	return zero, false
}

// Store records value for key, rotating to a fresh generation once the
// current one reaches maxSize.
func (c *Cache[O]) Store(key Key, value O) {
	if c.size.CompareAndSwap(c.maxSize, 0) {
		c.headIdx.Store(1 - c.headIdx.Load())
		c.gens[c.headIdx.Load()] = &sync.Map{}
	}
	c.gens[c.headIdx.Load()].Store(tableKey(key), value)
	c.size.Add(1)
}

// Wrap turns a single-argument pure function into its memoized form,
// counting calls is the caller's job (pass a function that increments its
// own counter, the way the benchmark does).
func Wrap[I Key, O any](fn func(I) O, maxSize uint32) func(I) O {
	cache := New[O](maxSize)
	return func(i I) O {
		if v, ok := cache.Load(i); ok {
			return v
		}
		v := fn(i)
		cache.Store(i, v)
		return v
	}
}
