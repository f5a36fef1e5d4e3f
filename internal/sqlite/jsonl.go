// JSONL export and import for snapshots, with atomic file writes. The
// export format is one JSON object per line: a header describing the
// snapshot, then one line per stored row in member and index order.
package sqlite

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/loom/pkg/loom"
	"github.com/mesh-intelligence/loom/pkg/snapshot"
)

// exportHeader is the first line of a JSONL export.
type exportHeader struct {
	SnapshotID string `json:"snapshot_id"`
	SchemaName string `json:"schema_name"`
	Label      string `json:"label"`
	CreatedAt  string `json:"created_at"`
}

// exportRow is one stored value in a JSONL export.
type exportRow struct {
	Member string          `json:"member"`
	Idx    int             `json:"idx"`
	Doc    json.RawMessage `json:"doc"`
}

// Export writes the identified snapshot to a JSONL file at path.
func (s *Store) Export(id, path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return snapshot.ErrStoreClosed
	}

	var header exportHeader
	err := s.db.QueryRow(
		`SELECT snapshot_id, schema_name, label, created_at FROM snapshots WHERE snapshot_id = ?`, id,
	).Scan(&header.SnapshotID, &header.SchemaName, &header.Label, &header.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return snapshot.ErrNotFound
	}
	if err != nil {
		return err
	}

	dumps, err := s.readRows(id)
	if err != nil {
		return err
	}

	records := make([]json.RawMessage, 0, 1)
	line, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("encoding header: %w", err)
	}
	records = append(records, line)

	for _, dump := range dumps {
		for i, doc := range dump.Rows {
			line, err := json.Marshal(exportRow{Member: dump.Member, Idx: i, Doc: doc})
			if err != nil {
				return fmt.Errorf("encoding row %d of %s: %w", i, dump.Member, err)
			}
			records = append(records, line)
		}
	}

	return writeJSONL(path, records)
}

// Import restores a JSONL export into an empty context of the matching
// schema. The database is not touched; use Save to persist afterwards.
func (s *Store) Import(ctx *loom.Context, path string) error {
	records, err := readJSONL(path)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("reading %s: empty export", path)
	}

	var header exportHeader
	if err := json.Unmarshal(records[0], &header); err != nil {
		return fmt.Errorf("decoding header: %w", err)
	}
	if got := ctx.Schema().Name(); got != header.SchemaName {
		return fmt.Errorf("%w: export has %q, context has %q",
			snapshot.ErrSchemaMismatch, header.SchemaName, got)
	}

	var dumps []loom.TableDump
	for _, rec := range records[1:] {
		var row exportRow
		if err := json.Unmarshal(rec, &row); err != nil {
			// Skip malformed lines; the export writer never produces them.
			continue
		}
		if len(dumps) == 0 || dumps[len(dumps)-1].Member != row.Member {
			dumps = append(dumps, loom.TableDump{Member: row.Member})
		}
		last := &dumps[len(dumps)-1]
		last.Rows = append(last.Rows, row.Doc)
	}

	return ctx.Restore(dumps)
}

// parseCreatedAt is a helper for tests inspecting export headers.
func parseCreatedAt(header exportHeader) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, header.CreatedAt)
}

// readJSONL reads a JSONL file and returns each non-empty, parseable
// line as a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the
// temp-file, fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
