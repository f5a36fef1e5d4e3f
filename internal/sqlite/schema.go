// Package sqlite implements the SQLite snapshot store for loom contexts.
package sqlite

// Schema DDL. The database persists across Open calls, so all statements
// are idempotent.
const (
	createSnapshots = `CREATE TABLE IF NOT EXISTS snapshots (
    snapshot_id TEXT PRIMARY KEY,
    schema_name TEXT NOT NULL,
    label TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createSnapshotRows = `CREATE TABLE IF NOT EXISTS snapshot_rows (
    snapshot_id TEXT NOT NULL,
    member TEXT NOT NULL,
    idx INTEGER NOT NULL,
    doc TEXT NOT NULL,
    PRIMARY KEY (snapshot_id, member, idx),
    FOREIGN KEY (snapshot_id) REFERENCES snapshots(snapshot_id)
);`

	idxSnapshotsCreated = `CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);`
	idxSnapshotsSchema  = `CREATE INDEX IF NOT EXISTS idx_snapshots_schema ON snapshots(schema_name);`
)

// schemaDDL lists all statements in dependency order.
var schemaDDL = []string{
	createSnapshots,
	createSnapshotRows,
	idxSnapshotsCreated,
	idxSnapshotsSchema,
}
