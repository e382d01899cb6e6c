// Package repomanager vends repository implementations for one storage
// backend and opens the matching database.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/buckets"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/entries"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/metadata"
)

// Storage backends accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Entries(db dbx.DBTX) entries.Repository
	Buckets(db dbx.DBTX) buckets.Repository
	Metadata(db dbx.DBTX) metadata.Repository
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open connects to dsn with the given backend and migrates it.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, RepositoryManager, error) {
	var (
		m          RepositoryManager
		driverName string
	)
	switch driver {
	case DriverSQLite, "":
		m, driverName = NewSQLiteRepositoryManager(), "sqlite"
	case DriverPostgres:
		m, driverName = NewPostgresRepositoryManager(), "pgx"
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driverName == "sqlite" {
		// one writer; also keeps :memory: databases on a single connection
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate %s: %w", driver, err)
	}
	return db, m, nil
}
