package loom

import (
	"iter"
	"math/bits"
	"slices"
)

// Proxy indexes are assigned densely from zero, so a set of proxies is
// usually a dense or mildly strided range of small integers. ProxySet
// exploits that: membership lives in 512-bit bitmap chunks keyed by
// index>>chunkShift, giving constant-time insert and lookup with one
// word of overhead per 512 potential members.
const (
	chunkShift = 9 // 512 indexes per chunk
	chunkWords = 8 // 8 * 64 bits
)

type chunk [chunkWords]uint64

// ProxySet is a set of proxies of one element type. It behaves exactly
// like an ordered set of the proxies' indexes: Contains reflects exact
// membership, and All yields each distinct inserted proxy once, in
// ascending index order. It remains compact and fast whether the
// population is contiguous, strided, or tens of thousands of random
// indexes.
//
// The zero value is not usable; call NewProxySet.
type ProxySet[T any] struct {
	chunks map[uint64]*chunk
	keys   []uint64 // sorted chunk keys, for ascending iteration
	size   int
}

// NewProxySet creates an empty set.
func NewProxySet[T any]() *ProxySet[T] {
	return &ProxySet[T]{chunks: make(map[uint64]*chunk)}
}

func split(index uint64) (key uint64, word int, mask uint64) {
	key = index >> chunkShift
	word = int(index>>6) & (chunkWords - 1)
	mask = uint64(1) << (index & 63)
	return key, word, mask
}

// Insert adds the proxy and reports whether it was not already
// present. Duplicate inserts leave the set unchanged.
func (s *ProxySet[T]) Insert(p Proxy[T]) bool {
	key, word, mask := split(p.index)
	ch, ok := s.chunks[key]
	if !ok {
		ch = new(chunk)
		s.chunks[key] = ch
		at, _ := slices.BinarySearch(s.keys, key)
		s.keys = slices.Insert(s.keys, at, key)
	}
	if ch[word]&mask != 0 {
		return false
	}
	ch[word] |= mask
	s.size++
	return true
}

// Contains reports whether the proxy has been inserted at least once
// (and not since removed).
func (s *ProxySet[T]) Contains(p Proxy[T]) bool {
	key, word, mask := split(p.index)
	ch, ok := s.chunks[key]
	return ok && ch[word]&mask != 0
}

// Remove deletes the proxy from the set and reports whether it was
// present. Emptied chunks are kept; populations shrink rarely and the
// chunk is likely to refill.
func (s *ProxySet[T]) Remove(p Proxy[T]) bool {
	key, word, mask := split(p.index)
	ch, ok := s.chunks[key]
	if !ok || ch[word]&mask == 0 {
		return false
	}
	ch[word] &^= mask
	s.size--
	return true
}

// Len returns the number of distinct proxies in the set.
func (s *ProxySet[T]) Len() int {
	return s.size
}

// All yields every member exactly once, in ascending index order. The
// sequence is finite and restartable.
func (s *ProxySet[T]) All() iter.Seq[Proxy[T]] {
	return func(yield func(Proxy[T]) bool) {
		for _, key := range s.keys {
			ch := s.chunks[key]
			base := key << chunkShift
			for w := 0; w < chunkWords; w++ {
				word := ch[w]
				for word != 0 {
					tz := bits.TrailingZeros64(word)
					ix := base | uint64(w)<<6 | uint64(tz)
					if !yield(Proxy[T]{index: ix}) {
						return
					}
					word &= word - 1
				}
			}
		}
	}
}
