package entries

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.Entry) error {
	query :=
		`INSERT INTO entries (id, user_id, kind, title, content, entry_date, mood, word_count, fingerprint, sealed, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, string(e.Kind), e.Title, e.Content, e.Date,
		e.Mood, e.WordCount, e.Fingerprint, e.Sealed, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, kind models.Kind) ([]*models.Entry, error) {
	query :=
		`SELECT id, user_id, kind, title, content, entry_date, mood, word_count, fingerprint, sealed, created_at
		 FROM entries WHERE user_id = $1 AND kind = $2
		 ORDER BY entry_date, created_at`

	result, err := dbx.Query(ctx, r.db, func(row dbx.Scanner) (*models.Entry, error) {
		var (
			e models.Entry
			k string
		)
		if err := row.Scan(&e.ID, &e.UserID, &k, &e.Title, &e.Content, &e.Date,
			&e.Mood, &e.WordCount, &e.Fingerprint, &e.Sealed, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = models.Kind(k)
		e.Date = e.Date.UTC()
		return &e, nil
	}, query, userID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}
