package loom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type warpThread struct{ A int }
type weftThread struct{ A int }
type strayThread struct{ A int }

func TestSchemaBuild(t *testing.T) {
	b := NewSchema("weave")
	Member[warpThread](b)
	Member[weftThread](b)

	s, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "weave", s.Name())
	assert.Equal(t, []string{"warpThread", "weftThread"}, s.Members())
	assert.True(t, s.Contains("warpThread"))
	assert.False(t, s.Contains("strayThread"))
}

func TestSchemaBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Builder
		wantErr error
	}{
		{
			name:    "empty name",
			build:   func() *Builder { return Member[warpThread](NewSchema("")) },
			wantErr: ErrSchemaNameEmpty,
		},
		{
			name:    "no members",
			build:   func() *Builder { return NewSchema("empty-weave") },
			wantErr: ErrNoMembers,
		},
		{
			name: "duplicate member",
			build: func() *Builder {
				b := NewSchema("weave")
				Member[warpThread](b)
				Member[warpThread](b)
				return b
			},
			wantErr: ErrDuplicateMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Build()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSchemaSingleOwnershipAcrossSchemas(t *testing.T) {
	first := NewSchema("first-owner")
	Member[strayThread](first)
	_, err := first.Build()
	require.NoError(t, err)

	// The same type cannot be claimed by a differently named schema.
	second := NewSchema("second-owner")
	Member[strayThread](second)
	_, err = second.Build()
	assert.ErrorIs(t, err, ErrMemberOwned)

	// Rebuilding under the original name stays legal.
	again := NewSchema("first-owner")
	Member[strayThread](again)
	_, err = again.Build()
	assert.NoError(t, err)
}

func TestSchemaMustBuildPanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		NewSchema("no-members").MustBuild()
	})
}
