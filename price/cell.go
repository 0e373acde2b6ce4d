package price

import "sync"

// Cell holds a single value, each Set overwrites the previous one whatever
// the order in which the values were requested.
//
// The zero Cell is empty and ready to use.
type Cell[T any] struct {
	mu    sync.Mutex
	value T
	set   bool
}

// Set replaces the value.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value, c.set = v, true
}

// Get returns the value, ok is false if it was never set.
func (c *Cell[T]) Get() (v T, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.set
}
