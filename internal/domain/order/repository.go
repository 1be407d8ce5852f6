package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/yoquet/backend/internal/domain/shared"
)

// Repository defines persistence operations for orders.
// Create must persist the order and all of its lines atomically:
// either every row commits or none do.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
