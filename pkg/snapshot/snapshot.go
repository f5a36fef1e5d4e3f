// Package snapshot defines the Store interface, configuration, and
// standard errors for persisting loom contexts. A snapshot is a full
// serialization of every member table, in index order; handles are not
// stored because dense, ordered tables make them re-derivable.
package snapshot

import (
	"errors"
	"time"

	"github.com/mesh-intelligence/loom/pkg/loom"
)

// Config holds backend selection and parameters for Store.Open.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a
// sentinel error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// Info describes one saved snapshot.
type Info struct {
	// SnapshotID is a UUID v7, generated on save.
	SnapshotID string

	// SchemaName is the name of the schema the snapshot was taken
	// from. A snapshot only loads into contexts of the same schema.
	SchemaName string

	// Label is a free-form caller-supplied tag.
	Label string

	// CreatedAt is the save timestamp, UTC.
	CreatedAt time.Time
}

// Store persists and restores loom contexts. Callers open a store,
// save or load snapshots, and close when done.
type Store interface {
	// Open connects the store to the backend described by config,
	// creating the data directory if needed. Returns ErrAlreadyOpen
	// if called while already open.
	Open(config Config) error

	// Close releases backend resources. Idempotent: multiple calls
	// succeed. After Close, operations return ErrStoreClosed.
	Close() error

	// Save writes a full snapshot of the context and returns its
	// metadata.
	Save(ctx *loom.Context, label string) (Info, error)

	// Load restores the identified snapshot into an empty context of
	// the same schema. Returns ErrNotFound for unknown IDs and
	// ErrSchemaMismatch when the context's schema differs.
	Load(ctx *loom.Context, id string) error

	// List returns metadata for all saved snapshots, newest first.
	List() ([]Info, error)

	// Delete removes a saved snapshot. Returns ErrNotFound for
	// unknown IDs.
	Delete(id string) error

	// Export writes the identified snapshot to a JSONL file at path,
	// for git-friendly archival outside the database.
	Export(id, path string) error

	// Import restores a JSONL export into an empty context of the
	// matching schema, without touching the database.
	Import(ctx *loom.Context, path string) error
}

// Store operation errors.
var (
	ErrStoreClosed    = errors.New("snapshot store is closed")
	ErrAlreadyOpen    = errors.New("snapshot store is already open")
	ErrNotFound       = errors.New("snapshot not found")
	ErrSchemaMismatch = errors.New("snapshot schema does not match context schema")
)
