package state

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver

	"github.com/nmaupu/cocktails/errors"
)

// Postgres persists snapshots to a shared database, for deployments where
// state has to outlive the container and its volume. Payloads land in a
// JSONB column so they stay queryable from psql.
type Postgres struct {
	*sqlStore
}

// NewPostgres connects with the given URL, prepares the state table and
// loads the last snapshot into memory.
func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	if url == "" {
		return nil, errors.WrapInvalid(nil, "state", "NewPostgres", "connection URL cannot be empty")
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, errors.WrapFatal(err, "state", "NewPostgres", "open database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapTransient(err, "state", "NewPostgres", "ping database")
	}
	inner, err := newSQLStore(ctx, db,
		`CREATE TABLE IF NOT EXISTS state (
			bucket TEXT PRIMARY KEY,
			payload JSONB NOT NULL
		)`,
		`INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`,
	)
	if err != nil {
		_ = db.Close()
		return nil, errors.WrapFatal(err, "state", "NewPostgres", "initialize state table")
	}
	return &Postgres{sqlStore: inner}, nil
}
