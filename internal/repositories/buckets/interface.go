// Package buckets persists bucket lists and their items in stored form.
package buckets

import (
	"context"

	"github.com/dmitrijs2005/gophjournal/internal/models"
)

type Repository interface {
	// Create inserts b together with b.Items, positioned in slice order.
	Create(ctx context.Context, b *models.Bucket) error

	// AddItem appends it after the bucket's last item.
	AddItem(ctx context.Context, it *models.BucketItem) error

	// ListByUser returns buckets pinned first, then oldest first, each with
	// its items in position order.
	ListByUser(ctx context.Context, userID string) ([]*models.Bucket, error)

	SetPinned(ctx context.Context, userID, id string, pinned bool) error

	// Delete removes a bucket and its items. Missing buckets yield
	// common.ErrorNotFound.
	Delete(ctx context.Context, userID, id string) error
}

// attach groups items under their buckets, preserving item order.
func attach(list []*models.Bucket, items []*models.BucketItem) {
	byID := make(map[string]*models.Bucket, len(list))
	for _, b := range list {
		byID[b.ID] = b
	}
	for _, it := range items {
		if b, ok := byID[it.BucketID]; ok {
			b.Items = append(b.Items, it)
		}
	}
}
