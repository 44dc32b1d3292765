// Package sqlite provides a PersistenceGateway backed by a local SQLite
// database file. It uses the cgo-free modernc.org/sqlite driver, so the
// binary stays portable to hosts without a C toolchain.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wordtrail/wordtrail/internal/store"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	namespace  TEXT PRIMARY KEY,
	blob       BLOB NOT NULL,
	updated_at TEXT NOT NULL
);
`

// Gateway stores one snapshot row per namespace.
type Gateway struct {
	db *sql.DB
}

// Verify interface compliance at compile time
var _ store.PersistenceGateway = (*Gateway)(nil)

// Open creates a new gateway on the database at the given path, creating
// the schema if needed.
func Open(path string) (*Gateway, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", store.ErrPersistence, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%w: failed to connect to database: %v", store.ErrPersistence, err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("%w: failed to apply schema: %v", store.ErrPersistence, err)
	}

	return &Gateway{db: db}, nil
}

// Close closes the underlying database connection.
func (g *Gateway) Close() error {
	return g.db.Close()
}

// Save upserts the snapshot for the namespace.
func (g *Gateway) Save(ctx context.Context, namespace string, blob []byte) error {
	_, err := g.db.ExecContext(ctx, `
		INSERT INTO snapshots (namespace, blob, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (namespace) DO UPDATE SET
			blob = excluded.blob,
			updated_at = excluded.updated_at
	`, namespace, blob, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("%w: failed to save snapshot %q: %v", store.ErrPersistence, namespace, err)
	}
	return nil
}

// Load returns the latest snapshot for the namespace.
func (g *Gateway) Load(ctx context.Context, namespace string) ([]byte, error) {
	var blob []byte
	err := g.db.QueryRowContext(ctx,
		`SELECT blob FROM snapshots WHERE namespace = ?`, namespace,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load snapshot %q: %v", store.ErrPersistence, namespace, err)
	}
	return blob, nil
}
