// Package migrations applies the embedded goose schema for either store.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/gophjournal/internal/migrations/postgres"
	"github.com/dmitrijs2005/gophjournal/internal/migrations/sqlite"
	"github.com/pressly/goose/v3"
)

// goose dialect names
const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "pgx"
)

// gooseUpContext is a seam for tests.
var gooseUpContext = goose.UpContext

func source(dialect string) (fs.FS, error) {
	switch dialect {
	case DialectSQLite:
		return sqlite.Migrations, nil
	case DialectPostgres:
		return postgres.Migrations, nil
	}
	return nil, fmt.Errorf("unsupported dialect %q", dialect)
}

// Up migrates db to the latest schema version.
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	fsys, err := source(dialect)
	if err != nil {
		return err
	}

	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, ".")
}
