package loom

import "iter"

// Table is the per-type unit of physical storage. It maps the index
// embedded in issued proxies to stored values, in insertion order.
//
// Tables are append-only: Push is the only way to grow one, values are
// edited in place through GetMut or ValuesMut, and nothing is ever
// removed. Because indexes are assigned sequentially from zero, storage
// is dense and ascending proxy order equals insertion order.
//
// Absence is a normal, recoverable outcome at this tier. A Table never
// panics.
type Table[T any] struct {
	// Elements are individually allocated so pointers handed out by
	// GetMut stay valid as the slice grows.
	items []*T
}

// NewTable creates an empty table. Most callers get tables implicitly
// by constructing a Context; direct use is for code that manages its
// own storage.
func NewTable[T any]() *Table[T] {
	return &Table[T]{}
}

// Push appends a value and returns a freshly issued proxy for it.
// The Nth push is assigned index N-1.
func (t *Table[T]) Push(value T) Proxy[T] {
	v := value
	t.items = append(t.items, &v)
	return Proxy[T]{index: uint64(len(t.items) - 1)}
}

// Get returns a copy of the stored value, or (zero, false) if this
// table never issued the proxy's index.
func (t *Table[T]) Get(p Proxy[T]) (T, bool) {
	if p.index >= uint64(len(t.items)) {
		var zero T
		return zero, false
	}
	return *t.items[p.index], true
}

// GetMut returns a pointer to the stored value for in-place edits, or
// (nil, false) if this table never issued the proxy's index. The
// pointer remains valid across later pushes.
func (t *Table[T]) GetMut(p Proxy[T]) (*T, bool) {
	if p.index >= uint64(len(t.items)) {
		return nil, false
	}
	return t.items[p.index], true
}

// Len returns the number of stored values.
func (t *Table[T]) Len() int {
	return len(t.items)
}

// Values yields copies of all stored values in ascending index order.
// The sequence is finite and restartable.
func (t *Table[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range t.items {
			if !yield(*item) {
				return
			}
		}
	}
}

// ValuesMut yields pointers to all stored values in ascending index
// order. Editing the pointed-to values is the only mutation permitted
// while iterating; do not push during iteration.
func (t *Table[T]) ValuesMut() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for _, item := range t.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Proxies yields a proxy for every stored value in ascending index
// order.
func (t *Table[T]) Proxies() iter.Seq[Proxy[T]] {
	return func(yield func(Proxy[T]) bool) {
		for ix := range t.items {
			if !yield(Proxy[T]{index: uint64(ix)}) {
				return
			}
		}
	}
}

// Clone returns a structurally independent copy of the table. Proxies
// issued by the original resolve identically against the clone.
func (t *Table[T]) Clone() *Table[T] {
	items := make([]*T, len(t.items))
	for i, item := range t.items {
		v := *item
		items[i] = &v
	}
	return &Table[T]{items: items}
}
