package buckets

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func (r *SQLiteRepository) Create(ctx context.Context, b *models.Bucket) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO buckets (id, user_id, name, description, icon, color, pinned, fingerprint, sealed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Name, b.Description, b.Icon, b.Color, b.Pinned, b.Fingerprint, b.Sealed, ts(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert bucket: %w", err)
	}

	for i, it := range b.Items {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO bucket_items (id, bucket_id, position, content, pinned, fingerprint, sealed, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			it.ID, b.ID, i, it.Content, it.Pinned, it.Fingerprint, it.Sealed, ts(it.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert bucket item %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) AddItem(ctx context.Context, it *models.BucketItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bucket_items (id, bucket_id, position, content, pinned, fingerprint, sealed, created_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(position) + 1, 0) FROM bucket_items WHERE bucket_id = ?), ?, ?, ?, ?, ?)`,
		it.ID, it.BucketID, it.BucketID, it.Content, it.Pinned, it.Fingerprint, it.Sealed, ts(it.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert bucket item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]*models.Bucket, error) {
	list, err := dbx.Query(ctx, r.db, func(row dbx.Scanner) (*models.Bucket, error) {
		var (
			b       models.Bucket
			created string
		)
		if err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Description, &b.Icon, &b.Color,
			&b.Pinned, &b.Fingerprint, &b.Sealed, &created); err != nil {
			return nil, err
		}
		var err error
		if b.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("bucket %s: bad created_at: %w", b.ID, err)
		}
		return &b, nil
	}, `SELECT id, user_id, name, description, icon, color, pinned, fingerprint, sealed, created_at
		FROM buckets WHERE user_id = ?
		ORDER BY pinned DESC, created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select buckets: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}

	items, err := r.listItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	attach(list, items)
	return list, nil
}

func (r *SQLiteRepository) listItems(ctx context.Context, userID string) ([]*models.BucketItem, error) {
	items, err := dbx.Query(ctx, r.db, func(row dbx.Scanner) (*models.BucketItem, error) {
		var (
			it      models.BucketItem
			created string
		)
		if err := row.Scan(&it.ID, &it.BucketID, &it.Content, &it.Pinned, &it.Fingerprint, &it.Sealed, &created); err != nil {
			return nil, err
		}
		var err error
		if it.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("bucket item %s: bad created_at: %w", it.ID, err)
		}
		return &it, nil
	}, `SELECT i.id, i.bucket_id, i.content, i.pinned, i.fingerprint, i.sealed, i.created_at
		FROM bucket_items i JOIN buckets b ON b.id = i.bucket_id
		WHERE b.user_id = ?
		ORDER BY i.bucket_id, i.position`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select bucket items: %w", err)
	}
	return items, nil
}

func (r *SQLiteRepository) SetPinned(ctx context.Context, userID, id string, pinned bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE buckets SET pinned = ? WHERE id = ? AND user_id = ?`, pinned, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update bucket: %w", err)
	}
	return expectOne(res.RowsAffected())
}

// Delete removes items explicitly; SQLite only cascades with foreign_keys on.
func (r *SQLiteRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM bucket_items WHERE bucket_id IN (SELECT id FROM buckets WHERE id = ? AND user_id = ?)`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bucket items: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM buckets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bucket: %w", err)
	}
	return expectOne(res.RowsAffected())
}

func expectOne(n int64, err error) error {
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
