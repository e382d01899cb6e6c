package buckets

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, b *models.Bucket) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO buckets (id, user_id, name, description, icon, color, pinned, fingerprint, sealed, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.UserID, b.Name, b.Description, b.Icon, b.Color, b.Pinned, b.Fingerprint, b.Sealed, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	for i, it := range b.Items {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO bucket_items (id, bucket_id, position, content, pinned, fingerprint, sealed, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, b.ID, i, it.Content, it.Pinned, it.Fingerprint, it.Sealed, it.CreatedAt)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) AddItem(ctx context.Context, it *models.BucketItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bucket_items (id, bucket_id, position, content, pinned, fingerprint, sealed, created_at)
		 VALUES ($1, $2, (SELECT COALESCE(MAX(position) + 1, 0) FROM bucket_items WHERE bucket_id = $2), $3, $4, $5, $6, $7)`,
		it.ID, it.BucketID, it.Content, it.Pinned, it.Fingerprint, it.Sealed, it.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Bucket, error) {
	list, err := dbx.Query(ctx, r.db, func(row dbx.Scanner) (*models.Bucket, error) {
		var b models.Bucket
		err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Description, &b.Icon, &b.Color,
			&b.Pinned, &b.Fingerprint, &b.Sealed, &b.CreatedAt)
		return &b, err
	}, `SELECT id, user_id, name, description, icon, color, pinned, fingerprint, sealed, created_at
		 FROM buckets WHERE user_id = $1
		 ORDER BY pinned DESC, created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}

	items, err := dbx.Query(ctx, r.db, func(row dbx.Scanner) (*models.BucketItem, error) {
		var it models.BucketItem
		err := row.Scan(&it.ID, &it.BucketID, &it.Content, &it.Pinned, &it.Fingerprint, &it.Sealed, &it.CreatedAt)
		return &it, err
	}, `SELECT i.id, i.bucket_id, i.content, i.pinned, i.fingerprint, i.sealed, i.created_at
		 FROM bucket_items i JOIN buckets b ON b.id = i.bucket_id
		 WHERE b.user_id = $1
		 ORDER BY i.bucket_id, i.position`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	attach(list, items)
	return list, nil
}

func (r *PostgresRepository) SetPinned(ctx context.Context, userID, id string, pinned bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE buckets SET pinned = $1 WHERE id = $2 AND user_id = $3`, pinned, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res.RowsAffected())
}

// Delete relies on ON DELETE CASCADE for items.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM buckets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res.RowsAffected())
}
