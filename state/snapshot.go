package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nmaupu/cocktails/errors"
)

const (
	bucketIngredients = "ingredients"
	bucketOverrides   = "overrides"
)

// sqlStore layers snapshot persistence over a Memory store. Reads are
// served from memory; every mutation rewrites both buckets of the state
// table inside one transaction. The SQLite and Postgres stores differ only
// in driver, table DDL and upsert syntax.
type sqlStore struct {
	mem    *Memory
	db     *sql.DB
	upsert string
	mu     sync.Mutex
}

func newSQLStore(ctx context.Context, db *sql.DB, createTable, upsert string) (*sqlStore, error) {
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &sqlStore{mem: NewMemory(), db: db, upsert: upsert}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *sqlStore) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ingredients := map[string]bool{}
	overrides := map[string]bool{}
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan state row: %w", err)
		}
		var dst *map[string]bool
		switch bucket {
		case bucketIngredients:
			dst = &ingredients
		case bucketOverrides:
			dst = &overrides
		default:
			continue
		}
		if err := json.Unmarshal(payload, dst); err != nil {
			return fmt.Errorf("decode %s: %w", bucket, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state rows: %w", err)
	}
	s.mem.restore(ingredients, overrides)
	return nil
}

func (s *sqlStore) persist(ctx context.Context) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ingredients, overrides := s.mem.snapshot()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, b := range []struct {
		name string
		data map[string]bool
	}{
		{bucketIngredients, ingredients},
		{bucketOverrides, overrides},
	} {
		payload, err := json.Marshal(b.data)
		if err != nil {
			retErr = err
			return retErr
		}
		if _, err := tx.ExecContext(ctx, s.upsert, b.name, payload); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", b.name, err)
			return retErr
		}
	}
	retErr = tx.Commit()
	return retErr
}

// IngredientStates returns a copy of the in-memory availability map.
func (s *sqlStore) IngredientStates(ctx context.Context) (map[string]bool, error) {
	return s.mem.IngredientStates(ctx)
}

// SetIngredientState records availability in memory and snapshots to the
// database.
func (s *sqlStore) SetIngredientState(ctx context.Context, name string, available bool) error {
	if err := s.mem.SetIngredientState(ctx, name, available); err != nil {
		return err
	}
	if err := s.persist(ctx); err != nil {
		return errors.WrapTransient(err, "state", "SetIngredientState", "persist snapshot")
	}
	return nil
}

// Overrides returns a copy of the in-memory override map.
func (s *sqlStore) Overrides(ctx context.Context) (map[string]bool, error) {
	return s.mem.Overrides(ctx)
}

// SetOverride records an override in memory and snapshots to the database.
func (s *sqlStore) SetOverride(ctx context.Context, name string, enabled bool) error {
	if err := s.mem.SetOverride(ctx, name, enabled); err != nil {
		return err
	}
	if err := s.persist(ctx); err != nil {
		return errors.WrapTransient(err, "state", "SetOverride", "persist snapshot")
	}
	return nil
}

// ClearOverride drops an override in memory and snapshots to the database.
func (s *sqlStore) ClearOverride(ctx context.Context, name string) error {
	if err := s.mem.ClearOverride(ctx, name); err != nil {
		return err
	}
	if err := s.persist(ctx); err != nil {
		return errors.WrapTransient(err, "state", "ClearOverride", "persist snapshot")
	}
	return nil
}

// Ping verifies the database connection.
func (s *sqlStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.WrapTransient(err, "state", "Ping", "ping database")
	}
	return nil
}

// Close closes the database handle.
func (s *sqlStore) Close() error {
	return s.db.Close()
}
