package cacher

import "sync"

// Const is a lazily loaded value shared by all callers until Clear is called.
type Const[T any] struct {
	mu     sync.Mutex
	loaded bool
	value  T
	load   func() T
}

// NewConst returns a const cacher.
func NewConst[T any](load func() T) *Const[T] {
	if load == nil {
		panic("nil loader func")
	}
	return &Const[T]{load: load}
}

// IsLoaded returns if the const is loaded.
func (c *Const[T]) IsLoaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Get loads the value on first use and returns the cached one afterwards.
func (c *Const[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.value = c.load()
		c.loaded = true
	}
	return c.value
}

// Clear forgets the cached value; the next Get loads again.
func (c *Const[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.loaded = false
}
