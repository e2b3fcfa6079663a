package ports

import "context"

// Stats is a point-in-time summary of stored entities.
type Stats struct {
	TotalOrders       int
	TotalCouriers     int
	AvailableCouriers int
	OrdersInProgress  int
}

// StatsProvider reports aggregate counts over the entity store.
type StatsProvider interface {
	Stats(ctx context.Context) (Stats, error)
}
