// Package integration provides end-to-end tests covering the public
// loom surface: schema declaration, context mutation, snapshot
// persistence, JSONL archival, and binding generation.
package integration

import (
	"testing"

	"github.com/mesh-intelligence/loom/pkg/loom"
	"github.com/mesh-intelligence/loom/pkg/snapshot"
	"github.com/mesh-intelligence/loom/pkg/sqlite"
)

// Test graph types shared by the suite. station links into tracks, so
// persistence tests exercise cross-table references.
type station struct {
	Name  string             `json:"name"`
	Track *loom.Proxy[track] `json:"track,omitempty"`
}

type track struct {
	Gauge int `json:"gauge"`
}

var railSchema = loom.Member[track](
	loom.Member[station](loom.NewSchema("railyard"))).MustBuild()

// setupStore opens a snapshot store over an isolated temp directory.
// Each test gets its own store instance for isolation.
func setupStore(t *testing.T) snapshot.Store {
	t.Helper()
	s := sqlite.NewStore()
	if err := s.Open(snapshot.Config{
		Backend: snapshot.BackendSQLite,
		DataDir: t.TempDir(),
	}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// populate adds n stations sharing one track and returns the context.
func populate(t *testing.T, n int) *loom.Context {
	t.Helper()
	ctx := loom.NewContext(railSchema)
	m := loom.Mutate(ctx)
	trunk := loom.Add(m, track{Gauge: 1435})
	for i := 0; i < n; i++ {
		loom.Add(m, station{Name: stationName(i), Track: &trunk})
	}
	return ctx
}

func stationName(i int) string {
	return "station-" + string(rune('a'+i%26))
}
