package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ExpressMaxDistanceKm is the maximum courier-to-pickup distance for which an
// EXPRESS order may be assigned.
const ExpressMaxDistanceKm = 5.0

// AssignmentOutcome classifies the result of an assignment attempt.
type AssignmentOutcome string

const (
	OutcomeAssigned            AssignmentOutcome = "ASSIGNED"
	OutcomeNoCouriersAvailable AssignmentOutcome = "NO_COURIERS_AVAILABLE"
	OutcomeNoCouriersInRange   AssignmentOutcome = "NO_COURIERS_IN_EXPRESS_RANGE"
)

// AssignmentResult describes what happened during an assignment attempt.
// Courier and DistanceKm are set only when Outcome is OutcomeAssigned.
// NearestDistanceKm is set only when Outcome is OutcomeNoCouriersInRange and
// reports the closest available courier over all of them, in range or not.
type AssignmentResult struct {
	Outcome           AssignmentOutcome
	Courier           *courier.Courier
	DistanceKm        float64
	NearestDistanceKm float64
	Message           string
}

// Assigned reports whether the attempt bound a courier to the order.
func (r AssignmentResult) Assigned() bool {
	return r.Outcome == OutcomeAssigned
}

// AssignmentService selects and binds couriers to orders. A single mutex
// serializes every Assign and Unassign end to end, so a courier observed as
// available inside the critical section cannot be claimed by a concurrent
// attempt before the binding is persisted.
type AssignmentService struct {
	mu       sync.Mutex
	orders   ports.OrderRepository
	couriers ports.CourierRepository
}

// NewAssignmentService creates an AssignmentService backed by the given
// repositories.
func NewAssignmentService(orders ports.OrderRepository, couriers ports.CourierRepository) (*AssignmentService, error) {
	if orders == nil {
		return nil, errs.NewValueIsRequiredError("orders")
	}
	if couriers == nil {
		return nil, errs.NewValueIsRequiredError("couriers")
	}
	return &AssignmentService{orders: orders, couriers: couriers}, nil
}

// Assign attempts to bind the nearest eligible available courier to o.
// Couriers at equal distance are broken by courier ID ascending. On success
// both the courier and the order are persisted before the result is returned.
func (s *AssignmentService) Assign(ctx context.Context, o *order.Order) (AssignmentResult, error) {
	if o == nil {
		return AssignmentResult{}, errs.NewValueIsRequiredError("order")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	available, err := s.couriers.GetAllAvailable(ctx)
	if err != nil {
		return AssignmentResult{}, err
	}
	if len(available) == 0 {
		return AssignmentResult{
			Outcome: OutcomeNoCouriersAvailable,
			Message: "no couriers are currently available, order remains unassigned",
		}, nil
	}

	// available is sorted by courier ID, so a strict less-than keeps the
	// lowest ID on distance ties.
	var (
		best        *courier.Courier
		bestDist    float64
		nearestDist float64
	)
	for i, c := range available {
		dist := c.Location().DistanceKm(o.Pickup())
		if i == 0 || dist < nearestDist {
			nearestDist = dist
		}
		if o.DeliveryType() == order.Express && dist > ExpressMaxDistanceKm {
			continue
		}
		if best == nil || dist < bestDist {
			best = c
			bestDist = dist
		}
	}
	if best == nil {
		return AssignmentResult{
			Outcome:           OutcomeNoCouriersInRange,
			NearestDistanceKm: nearestDist,
			Message: fmt.Sprintf(
				"no available couriers within %vkm for express delivery, nearest is %.2fkm away",
				ExpressMaxDistanceKm, nearestDist),
		}, nil
	}

	if err := best.MarkBusy(o.ID()); err != nil {
		return AssignmentResult{}, err
	}
	if err := s.couriers.Update(ctx, best); err != nil {
		return AssignmentResult{}, err
	}
	if err := o.Assign(best.ID()); err != nil {
		return AssignmentResult{}, err
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return AssignmentResult{}, err
	}

	return AssignmentResult{
		Outcome:    OutcomeAssigned,
		Courier:    best.Clone(),
		DistanceKm: bestDist,
		Message:    fmt.Sprintf("order assigned to courier %s (%.2fkm away)", best.Name(), bestDist),
	}, nil
}

// Unassign frees the courier bound to orderID. It is a no-op when the courier
// does not exist or has already been rebound to a different order, which makes
// it safe to call from every terminal-transition path.
func (s *AssignmentService) Unassign(ctx context.Context, orderID string, courierID string) error {
	if courierID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.couriers.Get(ctx, courierID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		return err
	}
	if c.OrderID() == nil || *c.OrderID() != orderID {
		return nil
	}
	c.MarkAvailable()
	return s.couriers.Update(ctx, c)
}
