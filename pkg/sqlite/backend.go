// Package sqlite provides the public API for the SQLite snapshot store.
// This package exposes the factory function for creating stores while
// keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/loom/internal/sqlite"
	"github.com/mesh-intelligence/loom/pkg/snapshot"
)

// NewStore creates a new SQLite snapshot store. The store is not open;
// call Open with a Config to connect it to a data directory.
//
// Example:
//
//	store := sqlite.NewStore()
//	err := store.Open(snapshot.Config{
//	    Backend: snapshot.BackendSQLite,
//	    DataDir: ".loom",
//	})
//	defer store.Close()
func NewStore() snapshot.Store {
	return sqlite.NewStore()
}
