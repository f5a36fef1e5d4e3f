package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/loom/pkg/loom"
	"github.com/mesh-intelligence/loom/pkg/snapshot"
)

// dbFileName is the database file created under the data directory.
const dbFileName = "loom.db"

// Store implements snapshot.Store backed by a SQLite database file.
type Store struct {
	mu     sync.RWMutex
	open   bool
	config snapshot.Config
	db     *sql.DB
}

// NewStore creates a new SQLite store. The store is not open; call
// Open with a Config to connect it to a data directory.
func NewStore() *Store {
	return &Store{}
}

// Open connects the store to the data directory named by config,
// creating the directory and database schema as needed.
// Returns snapshot.ErrAlreadyOpen if already open.
func (s *Store) Open(config snapshot.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return snapshot.ErrAlreadyOpen
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return err
	}

	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("initializing schema: %w", err)
		}
	}

	s.db = db
	s.config = config
	s.open = true

	Logger().Info("snapshot store opened", zap.String("data_dir", dataDir))
	return nil
}

// Close releases the database connection. Idempotent: closing a closed
// store succeeds. After Close, operations return snapshot.ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}

	s.open = false
	return nil
}

// Save writes a full snapshot of the context in one transaction and
// returns its metadata. The snapshot ID is a fresh UUID v7.
func (s *Store) Save(ctx *loom.Context, label string) (snapshot.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return snapshot.Info{}, snapshot.ErrStoreClosed
	}

	dumps, err := ctx.Dump()
	if err != nil {
		return snapshot.Info{}, fmt.Errorf("dumping context: %w", err)
	}

	info := snapshot.Info{
		SnapshotID: generateUUID(),
		SchemaName: ctx.Schema().Name(),
		Label:      label,
		CreatedAt:  time.Now().UTC(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return snapshot.Info{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO snapshots (snapshot_id, schema_name, label, created_at) VALUES (?, ?, ?, ?)`,
		info.SnapshotID, info.SchemaName, info.Label, info.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return snapshot.Info{}, fmt.Errorf("inserting snapshot: %w", err)
	}

	insertRow, err := tx.Prepare(
		`INSERT INTO snapshot_rows (snapshot_id, member, idx, doc) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return snapshot.Info{}, err
	}
	defer insertRow.Close()

	rowCount := 0
	for _, dump := range dumps {
		for i, doc := range dump.Rows {
			if _, err := insertRow.Exec(info.SnapshotID, dump.Member, i, string(doc)); err != nil {
				return snapshot.Info{}, fmt.Errorf("inserting row %d of %s: %w", i, dump.Member, err)
			}
			rowCount++
		}
	}

	if err := tx.Commit(); err != nil {
		return snapshot.Info{}, err
	}

	Logger().Info("snapshot saved",
		zap.String("snapshot_id", info.SnapshotID),
		zap.String("schema", info.SchemaName),
		zap.Int("rows", rowCount))
	return info, nil
}

// Load restores the identified snapshot into an empty context of the
// same schema. Returns snapshot.ErrNotFound for unknown IDs and
// snapshot.ErrSchemaMismatch when the context's schema name differs
// from the one the snapshot was taken from.
func (s *Store) Load(ctx *loom.Context, id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return snapshot.ErrStoreClosed
	}

	var schemaName string
	err := s.db.QueryRow(
		`SELECT schema_name FROM snapshots WHERE snapshot_id = ?`, id,
	).Scan(&schemaName)
	if errors.Is(err, sql.ErrNoRows) {
		return snapshot.ErrNotFound
	}
	if err != nil {
		return err
	}

	if got := ctx.Schema().Name(); got != schemaName {
		return fmt.Errorf("%w: snapshot has %q, context has %q",
			snapshot.ErrSchemaMismatch, schemaName, got)
	}

	dumps, err := s.readRows(id)
	if err != nil {
		return err
	}
	return ctx.Restore(dumps)
}

// readRows fetches a snapshot's rows grouped by member, each group in
// index order. Caller must hold s.mu.
func (s *Store) readRows(id string) ([]loom.TableDump, error) {
	rows, err := s.db.Query(
		`SELECT member, doc FROM snapshot_rows WHERE snapshot_id = ? ORDER BY member, idx`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dumps []loom.TableDump
	for rows.Next() {
		var member, doc string
		if err := rows.Scan(&member, &doc); err != nil {
			return nil, err
		}
		if len(dumps) == 0 || dumps[len(dumps)-1].Member != member {
			dumps = append(dumps, loom.TableDump{Member: member})
		}
		last := &dumps[len(dumps)-1]
		last.Rows = append(last.Rows, json.RawMessage(doc))
	}
	return dumps, rows.Err()
}

// List returns metadata for all saved snapshots, newest first.
func (s *Store) List() ([]snapshot.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return nil, snapshot.ErrStoreClosed
	}

	rows, err := s.db.Query(
		`SELECT snapshot_id, schema_name, label, created_at FROM snapshots ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []snapshot.Info
	for rows.Next() {
		var info snapshot.Info
		var createdAt string
		if err := rows.Scan(&info.SnapshotID, &info.SchemaName, &info.Label, &createdAt); err != nil {
			return nil, err
		}
		info.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for %s: %w", info.SnapshotID, err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes a saved snapshot and its rows. Returns
// snapshot.ErrNotFound for unknown IDs.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return snapshot.ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM snapshot_rows WHERE snapshot_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM snapshots WHERE snapshot_id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return snapshot.ErrNotFound
	}
	return tx.Commit()
}

// generateUUID generates a new UUID v7 for snapshot IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
