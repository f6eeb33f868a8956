package lazy

import "sync"

// AddHook runs before an element becomes visible in a List. Returning an
// error rejects the add and leaves the list unchanged.
type AddHook[T any] func(index int, elem T) error

// RemoveHook runs after an element has been taken out of a List.
type RemoveHook[T any] func(index int, elem T)

// List is a mutex-guarded ordered collection with per-element hookup
// callbacks. It backs the module's owned collections whose elements need
// side effects (ownership wiring, back-reference checks) applied at the
// single mutation boundary instead of at every call site.
type List[T any] struct {
	mu       sync.Mutex
	items    []T
	onAdd    AddHook[T]
	onRemove RemoveHook[T]
}

// NewList creates a list with optional mutation hooks. Either hook may be nil.
func NewList[T any](onAdd AddHook[T], onRemove RemoveHook[T]) *List[T] {
	return &List[T]{onAdd: onAdd, onRemove: onRemove}
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// At returns the element at index i.
func (l *List[T]) At(i int) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

// Add appends elem, running the add hook first. The element is not visible
// to readers until the hook has accepted it.
func (l *List[T]) Add(elem T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.onAdd != nil {
		if err := l.onAdd(len(l.items), elem); err != nil {
			return err
		}
	}
	l.items = append(l.items, elem)
	return nil
}

// Insert places elem at index i, shifting later elements up.
func (l *List[T]) Insert(i int, elem T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i > len(l.items) {
		i = len(l.items)
	}
	if l.onAdd != nil {
		if err := l.onAdd(i, elem); err != nil {
			return err
		}
	}
	l.items = append(l.items, elem)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = elem
	return nil
}

// RemoveAt removes and returns the element at index i.
func (l *List[T]) RemoveAt(i int) (T, bool) {
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		l.mu.Unlock()
		var zero T
		return zero, false
	}
	elem := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	onRemove := l.onRemove
	l.mu.Unlock()

	if onRemove != nil {
		onRemove(i, elem)
	}
	return elem, true
}

// Index returns the position of the first element for which match returns
// true, or -1.
func (l *List[T]) Index(match func(T) bool) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, it := range l.items {
		if match(it) {
			return i
		}
	}
	return -1
}

// Slice returns a copy of the current contents in insertion order.
func (l *List[T]) Slice() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Each calls fn for every element in order, stopping early if fn returns
// false. The list lock is not held during fn; Each iterates a snapshot.
func (l *List[T]) Each(fn func(T) bool) {
	for _, it := range l.Slice() {
		if !fn(it) {
			return
		}
	}
}
