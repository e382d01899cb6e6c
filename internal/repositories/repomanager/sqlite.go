package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/migrations"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/buckets"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/entries"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/metadata"
	_ "modernc.org/sqlite"
)

type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Buckets(db dbx.DBTX) buckets.Repository {
	return buckets.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrationsUp(ctx, db, migrations.DialectSQLite)
}
