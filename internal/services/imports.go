package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophjournal/internal/bundle"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/lock"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/dmitrijs2005/gophjournal/internal/reconcile"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/repomanager"
)

type ImportOptions struct {
	// DryRun plans the import and reports counts without writing.
	DryRun bool
}

// ImportService runs one reconciliation pass per call. Passes for the same
// user are serialized through the Locker; the plan is written in a single
// transaction, so a failed pass leaves storage untouched.
type ImportService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	engine *reconcile.Engine
	locker lock.Locker
	logger logging.Logger
}

func NewImportService(db *sql.DB, repos repomanager.RepositoryManager, engine *reconcile.Engine, locker lock.Locker, logger logging.Logger) *ImportService {
	return &ImportService{db: db, repos: repos, engine: engine, locker: locker, logger: logger}
}

func (s *ImportService) Import(ctx context.Context, userID string, r io.Reader, opts ImportOptions) (models.Result, error) {
	var res models.Result

	b, err := bundle.Decode(r)
	if err != nil {
		return res, err
	}

	unlock, err := s.locker.Lock(ctx, lock.ImportKey(userID))
	if err != nil {
		return res, err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn(ctx, "import lock release failed", "user", userID, "error", err)
		}
	}()

	snap, err := loadSnapshot(ctx, s.repos, s.db, userID)
	if err != nil {
		return res, err
	}

	plan, res, err := s.engine.Reconcile(ctx, userID, b, snap)
	if err != nil {
		return models.Result{}, err
	}
	if opts.DryRun || plan.Empty() {
		return res, nil
	}

	if err := s.persist(ctx, plan); err != nil {
		s.logger.Error(ctx, "import failed", "user", userID, "error", err)
		return models.Result{}, err
	}

	s.logger.Info(ctx, "import finished", "user", userID, "result", res.String())
	return res, nil
}

func (s *ImportService) persist(ctx context.Context, plan *reconcile.Plan) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		entries := s.repos.Entries(tx)
		for _, e := range plan.Journals {
			if err := entries.Create(ctx, e); err != nil {
				return fmt.Errorf("save journal: %w", err)
			}
		}
		for _, e := range plan.Diaries {
			if err := entries.Create(ctx, e); err != nil {
				return fmt.Errorf("save diary: %w", err)
			}
		}

		buckets := s.repos.Buckets(tx)
		for _, b := range plan.NewBuckets {
			if err := buckets.Create(ctx, b); err != nil {
				return fmt.Errorf("save bucket: %w", err)
			}
		}
		for _, it := range plan.MergedItems {
			if err := buckets.AddItem(ctx, it); err != nil {
				return fmt.Errorf("save bucket item: %w", err)
			}
		}
		return nil
	})
}
