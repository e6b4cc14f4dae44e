package state

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure Go sqlite driver

	"github.com/nmaupu/cocktails/errors"
)

// SQLite persists snapshots to an embedded database at state.db inside the
// data directory. No cgo, the driver is pure Go.
type SQLite struct {
	*sqlStore
	path string
}

// NewSQLite opens the embedded database under dir, creating both as
// needed, and loads the last snapshot into memory.
func NewSQLite(ctx context.Context, dir string) (*SQLite, error) {
	if dir == "" {
		return nil, errors.WrapInvalid(nil, "state", "NewSQLite", "data directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapFatal(err, "state", "NewSQLite", "create data directory")
	}
	path := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapFatal(err, "state", "NewSQLite", "open database")
	}
	inner, err := newSQLStore(ctx, db,
		`CREATE TABLE IF NOT EXISTS state (
			bucket TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		)`,
		`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
	)
	if err != nil {
		_ = db.Close()
		return nil, errors.WrapFatal(err, "state", "NewSQLite", "initialize state table")
	}
	return &SQLite{sqlStore: inner, path: path}, nil
}

// Path returns the database file location.
func (s *SQLite) Path() string { return s.path }
