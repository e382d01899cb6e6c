package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/migrations"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/buckets"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/entries"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/metadata"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Entries returns an entries.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewPostgresRepository(db)
}

// Buckets returns a buckets.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Buckets(db dbx.DBTX) buckets.Repository {
	return buckets.NewPostgresRepository(db)
}

// Metadata returns a metadata.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewPostgresRepository(db)
}

// RunMigrations applies the embedded PostgreSQL schema.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrationsUp(ctx, db, migrations.DialectPostgres)
}

// migrationsUp is a seam for tests.
var migrationsUp = migrations.Up
