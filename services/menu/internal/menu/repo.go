package menu

import (
	"context"

	"github.com/google/uuid"
)

type ItemFilter struct {
	Category  *string
	Available *bool
}

// MenuItemRepo defines the repository interface for menu items
type MenuItemRepo interface {
	Create(ctx context.Context, item *MenuItem) error
	Get(ctx context.Context, id uuid.UUID) (*MenuItem, error)
	List(ctx context.Context, filter ItemFilter) ([]MenuItem, error)
	Save(ctx context.Context, item *MenuItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}
