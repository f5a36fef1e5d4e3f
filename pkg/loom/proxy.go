package loom

import (
	"cmp"
	"fmt"
	"reflect"
	"strconv"
)

// Proxy is an opaque handle to a value of type T stored in a Table.
// It is a plain value: copy it, store it inside other stored objects,
// use it as a map key. Identity, ordering, and hashing are defined
// solely by the underlying index, so two proxies are equal exactly when
// their indexes are equal. The type parameter is a compile-time tag and
// occupies no storage.
//
// A Proxy is only guaranteed to resolve against the Table that issued
// it (or a structural copy of that table's state). Presenting it to an
// unrelated table yields absence at the Table tier and a panic at the
// Context tier, never a silently wrong value.
type Proxy[T any] struct {
	index uint64
}

// Index returns the 64-bit index assigned at insertion time.
// Indexes start at 0 and increase by exactly 1 per insertion.
func (p Proxy[T]) Index() uint64 {
	return p.index
}

// Compare orders proxies by index. Ascending proxy order equals
// insertion order within the issuing table.
func (p Proxy[T]) Compare(other Proxy[T]) int {
	return cmp.Compare(p.index, other.index)
}

// String formats the proxy as "<element type>#<index>" for debugging.
func (p Proxy[T]) String() string {
	return fmt.Sprintf("%s#%d", reflect.TypeFor[T]().String(), p.index)
}

// MarshalJSON encodes the proxy as its bare index, so stored values
// that link to other stored values serialize compactly.
func (p Proxy[T]) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, p.index, 10), nil
}

// UnmarshalJSON decodes a bare index produced by MarshalJSON.
func (p *Proxy[T]) UnmarshalJSON(data []byte) error {
	ix, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("decoding proxy index: %w", err)
	}
	p.index = ix
	return nil
}
