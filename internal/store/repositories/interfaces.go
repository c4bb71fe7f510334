package repositories

import (
	"context"
	"errors"

	"fashionmart/internal/domain/savedview"
)

// ErrNotFound is returned when a row does not exist or belongs to another owner
var ErrNotFound = errors.New("not found")

// SavedViewRepository defines the contract for saved view data access
type SavedViewRepository interface {
	Save(ctx context.Context, v *savedview.SavedView) error
	FindByID(ctx context.Context, owner, id string) (*savedview.SavedView, error)
	FindByOwner(ctx context.Context, owner, resource string, limit int) ([]*savedview.SavedView, error)
	Delete(ctx context.Context, owner, id string) error
}
