package loom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runSequence performs a fixed operation sequence through any Mutator
// and reports the observable results, so wrappers can be checked for
// behavioral transparency against the bare context.
func runSequence(m Mutator) []int {
	a := Add(m, bead{A: 10})
	b := Add(m, bead{A: 20, Link: &a})
	GetMut(m, a).A = 11

	var out []int
	out = append(out, Get(m, a).A)
	out = append(out, Get(m, b).A)
	for v := range Values[bead](m) {
		out = append(out, v.A*2)
	}
	return out
}

func TestMutRefTransparent(t *testing.T) {
	direct := newTestContext(t)
	wrapped := newTestContext(t)

	want := runSequence(direct)
	got := runSequence(Mutate(wrapped))

	assert.Equal(t, want, got)
}

func TestAccessReadsMatchDirectReads(t *testing.T) {
	ctx := newTestContext(t)
	p := Add(ctx, bead{A: 3})

	ro := Access(ctx)

	assert.Equal(t, Get(ctx, p), Get(ro, p))

	var direct, viaRef []int
	for v := range Values[bead](ctx) {
		direct = append(direct, v.A)
	}
	for v := range Values[bead](ro) {
		viaRef = append(viaRef, v.A)
	}
	assert.Equal(t, direct, viaRef)

	v, ok := Lookup(ro, p)
	require.True(t, ok)
	assert.Equal(t, 3, v.A)
}

func TestAccessSeesLaterWrites(t *testing.T) {
	ctx := newTestContext(t)
	ro := Access(ctx)

	p := Add(ctx, bead{A: 1})
	GetMut(ctx, p).A = 2

	// Ref is a forwarding layer with no state of its own.
	assert.Equal(t, 2, Get(ro, p).A)
	assert.Equal(t, 1, Len[bead](ro))
}
