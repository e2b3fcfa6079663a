package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the storage contract for order aggregates.
// The store owns every order instance; callers operate on copies obtained here
// and write them back through Update.
type OrderRepository interface {
	// NextID reserves and returns the next order identifier.
	NextID() string

	// Add stores a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identifier.
	// Returns an ObjectNotFoundError wrapping errs.ErrObjectNotFound if absent.
	Get(ctx context.Context, id string) (*order.Order, error)

	// GetAll retrieves every order, in creation order.
	GetAll(ctx context.Context) ([]*order.Order, error)

	// GetAllActive retrieves orders in an active state (ASSIGNED, PICKED_UP,
	// IN_TRANSIT) that have a bound courier. These are the orders the movement
	// simulator advances each tick.
	GetAllActive(ctx context.Context) ([]*order.Order, error)
}
