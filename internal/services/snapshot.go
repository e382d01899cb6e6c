package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/repomanager"
)

// loadSnapshot reads every stored record of userID through db.
func loadSnapshot(ctx context.Context, repos repomanager.RepositoryManager, db dbx.DBTX, userID string) (*models.Snapshot, error) {
	journals, err := repos.Entries(db).ListByUser(ctx, userID, models.KindJournal)
	if err != nil {
		return nil, fmt.Errorf("load journals: %w", err)
	}
	diaries, err := repos.Entries(db).ListByUser(ctx, userID, models.KindDiary)
	if err != nil {
		return nil, fmt.Errorf("load diaries: %w", err)
	}
	buckets, err := repos.Buckets(db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load buckets: %w", err)
	}
	return &models.Snapshot{Journals: journals, Diaries: diaries, Buckets: buckets}, nil
}
