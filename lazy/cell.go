package lazy

import "sync/atomic"

// Cell is a once-initialized slot. It starts absent, accepts exactly one
// value, and never reverts to absent except through an explicit Reset.
//
// Initialization races are resolved first-writer-wins: a losing candidate is
// discarded, never installed and never mutated further by the cell.
type Cell[T any] struct {
	v atomic.Pointer[T]
}

// Get returns the current value if one has been installed.
func (c *Cell[T]) Get() (T, bool) {
	if p := c.v.Load(); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// GetOrInit returns the installed value, computing and installing one via
// factory if the slot is still absent. When several goroutines race, every
// caller observes the same winning value.
//
// Racing callers may each run factory, so it must be side-effect free; a
// factory that mutates shared state belongs behind a sync.Once instead.
func (c *Cell[T]) GetOrInit(factory func() T) T {
	if p := c.v.Load(); p != nil {
		return *p
	}
	candidate := factory()
	if c.v.CompareAndSwap(nil, &candidate) {
		return candidate
	}
	return *c.v.Load()
}

// Set installs v if the slot is absent and reports whether this call won.
func (c *Cell[T]) Set(v T) bool {
	return c.v.CompareAndSwap(nil, &v)
}

// Present reports whether a value has been installed.
func (c *Cell[T]) Present() bool {
	return c.v.Load() != nil
}

// Reset clears the slot. Reserved for disposal and explicit cache
// invalidation paths; ordinary readers must never observe a present slot
// become absent during normal operation.
func (c *Cell[T]) Reset() {
	c.v.Store(nil)
}
