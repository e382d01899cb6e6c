package metadata

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/dbx"
)

const (
	sqliteGet    = `SELECT value FROM metadata WHERE key = ?`
	sqliteUpsert = `INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	sqliteDelete = `DELETE FROM metadata WHERE key = ?`
	// substr compares literally; LIKE would treat '_' and '%' in
	// usernames as wildcards.
	sqliteList = `SELECT key, value FROM metadata
		WHERE substr(key, 1, length(?1)) = ?1 ORDER BY key`
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := scanValue(r.db.QueryRowContext(ctx, sqliteGet, key))
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return v, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.ExecContext(ctx, sqliteUpsert, key, value); err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, sqliteDelete, key); err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	pairs, err := dbx.Query(ctx, r.db, scanPair, sqliteList, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	return collect(pairs), nil
}
