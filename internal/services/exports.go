package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/export"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/repomanager"
)

// timeNow is a seam for tests.
var timeNow = time.Now

type ExportService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	assembler *export.Assembler
	product   string
	logger    logging.Logger
}

func NewExportService(db *sql.DB, repos repomanager.RepositoryManager, a *export.Assembler, product string, logger logging.Logger) *ExportService {
	return &ExportService{db: db, repos: repos, assembler: a, product: product, logger: logger}
}

// Export writes all of user's records to sink and returns where they went.
func (s *ExportService) Export(ctx context.Context, user models.User, sink export.Sink) (string, error) {
	snap, err := loadSnapshot(ctx, s.repos, s.db, user.Username)
	if err != nil {
		return "", err
	}

	data, err := export.Marshal(s.assembler.Assemble(ctx, user, snap))
	if err != nil {
		return "", err
	}

	loc, err := sink.Put(ctx, export.FileName(user.Username, s.product, timeNow()), data)
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "export written", "user", user.Username, "location", loc,
		"journals", len(snap.Journals), "diaries", len(snap.Diaries), "buckets", len(snap.Buckets))
	return loc, nil
}
