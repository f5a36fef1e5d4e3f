package loom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextDumpRestoreRoundTrip(t *testing.T) {
	src := newTestContext(t)

	a := Add(src, bead{A: 0})
	b := Add(src, bead{A: 1, Link: &a})
	Add(src, bead{A: 2, Link: &b})
	Add(src, knot{Label: "tied"})

	dumps, err := src.Dump()
	require.NoError(t, err)
	require.Len(t, dumps, 2)
	assert.Equal(t, []string{"knot", "bead"}, []string{dumps[0].Member, dumps[1].Member})

	dst := newTestContext(t)
	require.NoError(t, dst.Restore(dumps))

	// Proxies issued before the dump resolve identically after the
	// restore, links included.
	assert.Equal(t, 3, Len[bead](dst))
	assert.Equal(t, 1, Len[knot](dst))

	bv := Get(dst, b)
	assert.Equal(t, 1, bv.A)
	require.NotNil(t, bv.Link)
	assert.Equal(t, 0, Get(dst, *bv.Link).A)
}

func TestContextRestoreRequiresEmptyContext(t *testing.T) {
	src := newTestContext(t)
	Add(src, bead{A: 1})
	dumps, err := src.Dump()
	require.NoError(t, err)

	dst := newTestContext(t)
	Add(dst, knot{Label: "occupied"})

	assert.ErrorIs(t, dst.Restore(dumps), ErrContextNotEmpty)
}

func TestContextRestoreRejectsUnknownMember(t *testing.T) {
	dst := newTestContext(t)

	err := dst.Restore([]TableDump{{Member: "ghost"}})
	assert.ErrorIs(t, err, ErrUnknownMember)
}

func TestContextRestoreRejectsMalformedRows(t *testing.T) {
	dst := newTestContext(t)

	err := dst.Restore([]TableDump{{Member: "bead", Rows: []rawRow{rawRow(`{`)}}})
	assert.Error(t, err)
}
