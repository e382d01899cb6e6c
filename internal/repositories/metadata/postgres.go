package metadata

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/dbx"
)

const (
	pgGet    = `SELECT value FROM metadata WHERE key = $1`
	pgUpsert = `INSERT INTO metadata (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	pgDelete = `DELETE FROM metadata WHERE key = $1`
	pgList   = `SELECT key, value FROM metadata WHERE starts_with(key, $1)`
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func dbError(err error) error {
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := scanValue(r.db.QueryRowContext(ctx, pgGet, key))
	if err != nil {
		return nil, dbError(err)
	}
	return v, nil
}

func (r *PostgresRepository) Set(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.ExecContext(ctx, pgUpsert, key, value); err != nil {
		return dbError(err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, pgDelete, key); err != nil {
		return dbError(err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	pairs, err := dbx.Query(ctx, r.db, scanPair, pgList, prefix)
	if err != nil {
		return nil, dbError(err)
	}
	return collect(pairs), nil
}
