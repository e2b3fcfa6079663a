package usecases

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// MoveResult reports a direct courier movement: the courier's new position and
// whether the target was reached.
type MoveResult struct {
	Courier *courier.Courier
	Reached bool
}

// CourierService exposes courier queries and direct courier movement. It does
// not touch order state; moving a courier on top of a pickup point does not
// advance the bound order by itself.
type CourierService struct {
	couriers ports.CourierRepository
}

// NewCourierService creates a CourierService.
func NewCourierService(couriers ports.CourierRepository) (*CourierService, error) {
	if couriers == nil {
		return nil, errs.NewValueIsRequiredError("couriers")
	}
	return &CourierService{couriers: couriers}, nil
}

// ListCouriers returns the whole fleet sorted by courier ID.
func (s *CourierService) ListCouriers(ctx context.Context) ([]*courier.Courier, error) {
	return s.couriers.GetAll(ctx)
}

// ListAvailable returns the available couriers sorted by courier ID.
func (s *CourierService) ListAvailable(ctx context.Context) ([]*courier.Courier, error) {
	return s.couriers.GetAllAvailable(ctx)
}

// GetCourier returns the courier with the given ID.
func (s *CourierService) GetCourier(ctx context.Context, courierID string) (*courier.Courier, error) {
	return s.couriers.Get(ctx, courierID)
}

// SetLocation teleports the courier to location.
func (s *CourierService) SetLocation(ctx context.Context, courierID string, location kernel.Location) (*courier.Courier, error) {
	c, err := s.couriers.Get(ctx, courierID)
	if err != nil {
		return nil, err
	}
	c.SetLocation(location)
	if err := s.couriers.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// MoveTowards moves the courier one step towards target. When step is not
// positive the default step is used.
func (s *CourierService) MoveTowards(ctx context.Context, courierID string, target kernel.Location, step float64) (*MoveResult, error) {
	if step <= 0 {
		step = DefaultProgressStep
	}
	c, err := s.couriers.Get(ctx, courierID)
	if err != nil {
		return nil, err
	}
	reached := c.MoveTowards(target, step)
	if err := s.couriers.Update(ctx, c); err != nil {
		return nil, err
	}
	return &MoveResult{Courier: c, Reached: reached}, nil
}
