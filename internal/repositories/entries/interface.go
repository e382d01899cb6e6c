// Package entries persists journal and diary entries in their stored
// (encrypted) form. Implementations work over dbx.DBTX so they can run
// inside a transaction.
package entries

import (
	"context"

	"github.com/dmitrijs2005/gophjournal/internal/models"
)

type Repository interface {
	Create(ctx context.Context, e *models.Entry) error

	// ListByUser returns the user's entries of one kind, oldest date first.
	ListByUser(ctx context.Context, userID string, kind models.Kind) ([]*models.Entry, error)

	// Delete removes one entry. It returns common.ErrorNotFound when the
	// entry does not exist for that user.
	Delete(ctx context.Context, userID, id string) error
}
