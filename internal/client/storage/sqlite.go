package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/pengaduan/internal/dbx"
)

// SQLiteBackend stores values in the kv table of a local SQLite file.
type SQLiteBackend struct {
	db *sql.DB
}

func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

func (r *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	found, err := dbx.QueryOne(ctx, r.db, `SELECT value FROM kv WHERE key = ?`, []any{key}, &value)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	if !found {
		return nil, false, nil
	}
	return value, true, nil
}

func (r *SQLiteBackend) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteBackend) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}

// Clear wipes the kv table and records the time in kv_meta, atomically.
func (r *SQLiteBackend) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO kv_meta (name, value) VALUES ('cleared_at', CURRENT_TIMESTAMP)
			ON CONFLICT(name) DO UPDATE SET value = excluded.value
		`)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear kv: %w", err)
	}
	return nil
}

func (r *SQLiteBackend) Close() error {
	return r.db.Close()
}

// ClearedAt reports when Clear last ran, or "" if it never did.
func (r *SQLiteBackend) ClearedAt(ctx context.Context) (string, error) {
	var v string
	if _, err := dbx.QueryOne(ctx, r.db, `SELECT value FROM kv_meta WHERE name = 'cleared_at'`, nil, &v); err != nil {
		return "", fmt.Errorf("failed to get kv_meta[cleared_at]: %w", err)
	}
	return v, nil
}
