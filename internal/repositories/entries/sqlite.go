package entries

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/models"
)

// SQLiteRepository stores timestamps as RFC 3339 text.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, e *models.Entry) error {
	query := `INSERT INTO entries (id, user_id, kind, title, content, entry_date, mood, word_count, fingerprint, sealed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, string(e.Kind), e.Title, e.Content,
		e.Date.UTC().Format(time.RFC3339Nano), e.Mood, e.WordCount, e.Fingerprint, e.Sealed,
		e.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string, kind models.Kind) ([]*models.Entry, error) {
	query := `SELECT id, user_id, kind, title, content, entry_date, mood, word_count, fingerprint, sealed, created_at
		FROM entries WHERE user_id = ? AND kind = ?
		ORDER BY entry_date, created_at`

	result, err := dbx.Query(ctx, r.db, scanSQLiteEntry, query, userID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	return result, nil
}

// scanSQLiteEntry reads a row whose timestamps are stored as RFC 3339 text.
func scanSQLiteEntry(row dbx.Scanner) (*models.Entry, error) {
	var (
		e               models.Entry
		k, date, create string
	)
	if err := row.Scan(&e.ID, &e.UserID, &k, &e.Title, &e.Content, &date,
		&e.Mood, &e.WordCount, &e.Fingerprint, &e.Sealed, &create); err != nil {
		return nil, err
	}
	e.Kind = models.Kind(k)

	var err error
	if e.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
		return nil, fmt.Errorf("entry %s: bad date: %w", e.ID, err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, create); err != nil {
		return nil, fmt.Errorf("entry %s: bad created_at: %w", e.ID, err)
	}
	return &e, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}
