package drafts

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mitteie/internal/client/models"
)

var ErrNotFound = errors.New("draft not found")

// Repository persists drafts.
type Repository interface {
	// Save inserts d or replaces the draft with the same ID.
	Save(ctx context.Context, d *models.Draft) error
	// Get returns ErrNotFound when no draft has the id.
	Get(ctx context.Context, id string) (*models.Draft, error)
	// List returns drafts oldest first.
	List(ctx context.Context) ([]models.Draft, error)
	Delete(ctx context.Context, id string) error
}
