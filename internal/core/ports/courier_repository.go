// Package ports defines repository interfaces between the domain core and the
// entity store, enabling dependency inversion and testability.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
)

// CourierRepository defines the storage contract for courier aggregates.
type CourierRepository interface {
	// Add stores a new courier aggregate.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier by its identifier.
	// Returns an ObjectNotFoundError wrapping errs.ErrObjectNotFound if absent.
	Get(ctx context.Context, id string) (*courier.Courier, error)

	// GetAll retrieves every courier, ordered by identifier.
	GetAll(ctx context.Context) ([]*courier.Courier, error)

	// GetAllAvailable retrieves couriers currently free to take an order,
	// ordered by identifier.
	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)
}
