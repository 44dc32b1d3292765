// Package postgres provides a PersistenceGateway backed by PostgreSQL,
// for hosts that run the core as a shared service rather than on-device.
// Schema migrations are embedded and applied with goose on open.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/wordtrail/wordtrail/internal/store"

	_ "github.com/jackc/pgx/v5/stdlib" // Registers the pgx database/sql driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// Gateway stores one snapshot row per namespace.
type Gateway struct {
	db *sql.DB
}

// Verify interface compliance at compile time
var _ store.PersistenceGateway = (*Gateway)(nil)

// Open connects to the database at the given URL and applies any pending
// migrations.
func Open(url string) (*Gateway, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", store.ErrPersistence, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%w: failed to connect to database: %v", store.ErrPersistence, err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("%w: failed to set migration dialect: %v", store.ErrPersistence, err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return nil, fmt.Errorf("%w: failed to run migrations: %v", store.ErrPersistence, err)
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
		VALUES ($1, $2, now())
		ON CONFLICT (namespace) DO UPDATE SET
			blob = EXCLUDED.blob,
			updated_at = EXCLUDED.updated_at
	`, namespace, blob)
	if err != nil {
		return fmt.Errorf("%w: failed to save snapshot %q: %v", store.ErrPersistence, namespace, err)
	}
	return nil
}

// Load returns the latest snapshot for the namespace.
func (g *Gateway) Load(ctx context.Context, namespace string) ([]byte, error) {
	var blob []byte
	err := g.db.QueryRowContext(ctx,
		`SELECT blob FROM snapshots WHERE namespace = $1`, namespace,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load snapshot %q: %v", store.ErrPersistence, namespace, err)
	}
	return blob, nil
}
