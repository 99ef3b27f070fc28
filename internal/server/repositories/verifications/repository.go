// Package verifications declares the repository contract for pending email
// verification records.
package verifications

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository stores verification records keyed by user.
type Repository interface {
	// Create stores v and fills in its generated ID.
	Create(ctx context.Context, v *models.Verification) (*models.Verification, error)

	// FindByUserID returns every pending record for userID, newest first.
	// An empty result is not an error.
	FindByUserID(ctx context.Context, userID string) ([]*models.Verification, error)

	// Delete removes a single record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteByUserID removes every record of userID and reports how many went.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}
