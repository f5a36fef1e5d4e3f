package loom

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProxySetExhaustiveMasks inserts handles 0..15 according to every
// possible 16-bit mask and checks membership bit for bit. Every mask
// value is exercised, not a sample.
func TestProxySetExhaustiveMasks(t *testing.T) {
	tbl := NewTable[knot]()
	proxies := make([]Proxy[knot], 16)
	for i := range proxies {
		proxies[i] = tbl.Push(knot{})
	}

	for mask := 0; mask < 1<<16; mask++ {
		ps := NewProxySet[knot]()
		for j := 0; j < 16; j++ {
			if mask&(1<<j) != 0 {
				ps.Insert(proxies[j])
			}
		}
		for j := 0; j < 16; j++ {
			if ps.Contains(proxies[j]) != (mask&(1<<j) != 0) {
				t.Fatalf("mask %#x: membership of bit %d is wrong", mask, j)
			}
		}
	}
}

// TestProxySetStrided covers sparse populations: every 32nd handle out
// of a larger table.
func TestProxySetStrided(t *testing.T) {
	tbl := NewTable[knot]()
	all := make([]Proxy[knot], 512)
	for i := range all {
		all[i] = tbl.Push(knot{})
	}

	ps := NewProxySet[knot]()
	for i := 0; i < 512; i += 32 {
		ps.Insert(all[i])
	}

	for i, p := range all {
		assert.Equal(t, i%32 == 0, ps.Contains(p), "index %d", i)
	}
	assert.Equal(t, 16, ps.Len())
}

// TestProxySetMatchesReference compares against a plain map-backed set
// over tens of thousands of randomly chosen handles.
func TestProxySetMatchesReference(t *testing.T) {
	tbl := NewTable[knot]()
	all := make([]Proxy[knot], 65536)
	for i := range all {
		all[i] = tbl.Push(knot{})
	}

	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 20; round++ {
		ref := make(map[Proxy[knot]]struct{})
		ps := NewProxySet[knot]()

		n := rng.Intn(30000)
		for i := 0; i < n; i++ {
			p := all[rng.Intn(len(all))]
			ref[p] = struct{}{}
			ps.Insert(p)
		}

		require.Equal(t, len(ref), ps.Len())
		for _, p := range all {
			_, want := ref[p]
			if ps.Contains(p) != want {
				t.Fatalf("round %d: membership of %s diverges from reference", round, p)
			}
		}
	}
}

func TestProxySetIterationAscendingNoDuplicates(t *testing.T) {
	tbl := NewTable[knot]()
	all := make([]Proxy[knot], 65536)
	for i := range all {
		all[i] = tbl.Push(knot{})
	}

	rng := rand.New(rand.NewSource(2))
	ref := make(map[Proxy[knot]]struct{})
	ps := NewProxySet[knot]()

	for i := 0; i < 30000; i++ {
		p := all[rng.Intn(len(all))]
		ref[p] = struct{}{}
		ps.Insert(p)
	}

	var prev uint64
	first := true
	count := 0
	for p := range ps.All() {
		if !first {
			require.Greater(t, p.Index(), prev, "iteration must be strictly ascending")
		}
		prev = p.Index()
		first = false
		count++

		_, ok := ref[p]
		require.True(t, ok, "iterated proxy %s was never inserted", p)
		delete(ref, p)
	}
	assert.Empty(t, ref, "every inserted proxy must be yielded")
	assert.Equal(t, count, ps.Len())
}

func TestProxySetDuplicateInsert(t *testing.T) {
	tbl := NewTable[knot]()
	p := tbl.Push(knot{})

	ps := NewProxySet[knot]()
	assert.True(t, ps.Insert(p))
	assert.False(t, ps.Insert(p))
	assert.Equal(t, 1, ps.Len())

	n := 0
	for range ps.All() {
		n++
	}
	assert.Equal(t, 1, n)
}

func TestProxySetRemove(t *testing.T) {
	tbl := NewTable[knot]()
	var ps = NewProxySet[knot]()
	var proxies []Proxy[knot]
	for i := 0; i < 100; i++ {
		p := tbl.Push(knot{})
		proxies = append(proxies, p)
		ps.Insert(p)
	}

	for i := 0; i < 100; i += 2 {
		assert.True(t, ps.Remove(proxies[i]))
	}
	assert.False(t, ps.Remove(proxies[0]), "already removed")
	assert.Equal(t, 50, ps.Len())

	for i, p := range proxies {
		assert.Equal(t, i%2 == 1, ps.Contains(p))
	}
}

func TestProxySetEarlyBreak(t *testing.T) {
	tbl := NewTable[knot]()
	ps := NewProxySet[knot]()
	for i := 0; i < 10; i++ {
		ps.Insert(tbl.Push(knot{}))
	}

	n := 0
	for range ps.All() {
		n++
		if n == 4 {
			break
		}
	}
	assert.Equal(t, 4, n)
}
