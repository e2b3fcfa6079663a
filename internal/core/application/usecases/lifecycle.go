package usecases

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DefaultProgressStep is the per-invocation movement step used when the caller
// does not specify one.
const DefaultProgressStep = 0.01

// CreateOrderSpec carries the caller-supplied order attributes. Locations are
// pointers so that an absent location can be distinguished from the origin.
type CreateOrderSpec struct {
	Pickup       *kernel.Location
	Drop         *kernel.Location
	DeliveryType string
	Weight       float64
	Size         string
}

func (s CreateOrderSpec) violations() []string {
	var out []string
	if s.Pickup == nil {
		out = append(out, "invalid pickup location: lat and lng are required")
	}
	if s.Drop == nil {
		out = append(out, "invalid drop location: lat and lng are required")
	}
	if !order.DeliveryType(s.DeliveryType).IsValid() {
		out = append(out, "invalid delivery type: must be either EXPRESS or NORMAL")
	}
	if s.Weight <= 0 {
		out = append(out, "package weight must be greater than 0")
	}
	if !order.PackageSize(s.Size).IsValid() {
		out = append(out, "package size must be small, medium, or large")
	}
	return out
}

// CreateOrderResult pairs a freshly created order with the outcome of its
// immediate assignment attempt.
type CreateOrderResult struct {
	Order      *order.Order
	Assignment AssignmentResult
}

// ProgressResult reports the effect of a single movement step on an order.
type ProgressResult struct {
	Order   *order.Order
	Courier *courier.Courier
	Message string
}

// OrderInspection is a diagnostic view of an order: the bound courier, the
// progression decision for the current state and the courier's raw-degree
// distances to both targets. Courier and Decision are nil for unbound orders.
type OrderInspection struct {
	Order     *order.Order
	Courier   *courier.Courier
	Decision  *services.Decision
	ToPickup  float64
	ToDrop    float64
	Threshold float64
}

// LifecycleService owns order creation and every state transition. All
// transitions, manual and automatic, funnel through Transition so that the
// structural rules and the courier-proximity rules are enforced in one place.
type LifecycleService struct {
	orders     ports.OrderRepository
	couriers   ports.CourierRepository
	assignment *AssignmentService
	validator  services.ProgressionValidator
}

// NewLifecycleService creates a LifecycleService.
func NewLifecycleService(
	orders ports.OrderRepository,
	couriers ports.CourierRepository,
	assignment *AssignmentService,
) (*LifecycleService, error) {
	if orders == nil {
		return nil, errs.NewValueIsRequiredError("orders")
	}
	if couriers == nil {
		return nil, errs.NewValueIsRequiredError("couriers")
	}
	if assignment == nil {
		return nil, errs.NewValueIsRequiredError("assignment")
	}
	return &LifecycleService{
		orders:     orders,
		couriers:   couriers,
		assignment: assignment,
		validator:  services.NewProgressionValidator(),
	}, nil
}

// CreateOrder validates spec, persists a new order in CREATED state and
// immediately attempts assignment. The order is returned even when no courier
// could be assigned; the attempt's outcome travels in the result.
//
// Validation collects every violation before failing, so a request with three
// bad fields reports all three at once.
func (s *LifecycleService) CreateOrder(ctx context.Context, spec CreateOrderSpec) (*CreateOrderResult, error) {
	if violations := spec.violations(); len(violations) > 0 {
		return nil, errs.NewValidationError(violations)
	}

	o, err := order.NewOrder(
		s.orders.NextID(),
		*spec.Pickup,
		*spec.Drop,
		order.DeliveryType(spec.DeliveryType),
		order.Package{Weight: spec.Weight, Size: order.PackageSize(spec.Size)},
	)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Add(ctx, o); err != nil {
		return nil, err
	}

	assignment, err := s.assignment.Assign(ctx, o)
	if err != nil {
		return nil, err
	}

	stored, err := s.orders.Get(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	return &CreateOrderResult{Order: stored, Assignment: assignment}, nil
}

// GetOrder returns the order with the given ID.
func (s *LifecycleService) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	return s.orders.Get(ctx, orderID)
}

// ListOrders returns every order in creation order.
func (s *LifecycleService) ListOrders(ctx context.Context) ([]*order.Order, error) {
	return s.orders.GetAll(ctx)
}

// Transition moves the order with the given ID to next. Checks run in a fixed
// sequence: existence, the manual allow-list when manual is set, the
// transition table, the courier binding for PICKED_UP, and finally courier
// proximity for automatic non-cancellation transitions. When next is terminal
// the bound courier is released after the transition is persisted.
func (s *LifecycleService) Transition(ctx context.Context, orderID string, next order.State, manual bool) (*order.Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if manual && !o.State().ManualTransitionAllowed(next) {
		return nil, errs.NewTransitionNotPermittedError(o.State().String(), next.String())
	}
	if !o.State().CanTransitionTo(next) {
		return nil, errs.NewInvalidTransitionError(o.State().String(), next.String(), o.State().ValidNextStateNames())
	}
	if next == order.PickedUp && o.CourierID() == nil {
		return nil, errs.NewNoCourierAssignedError(o.ID())
	}
	if !manual && next != order.Cancelled {
		decision, err := s.progressionDecision(ctx, o)
		if err != nil {
			return nil, err
		}
		if !decision.Allowed {
			return nil, errs.NewProgressionBlockedError(next.String(), decision.Reason, decision.Distance)
		}
	}

	// TransitionTo clears the binding on terminal states, so capture it first.
	boundCourier := o.CourierID()
	if err := o.TransitionTo(next); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	if next.IsTerminal() && boundCourier != nil {
		if err := s.assignment.Unassign(ctx, o.ID(), *boundCourier); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Cancel cancels the order with the given ID. Orders already in a terminal
// state fail with AlreadyTerminalError; everything else follows the manual
// transition rules, so an order that is already out for delivery cannot be
// cancelled either.
func (s *LifecycleService) Cancel(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.State().IsTerminal() {
		return nil, errs.NewAlreadyTerminalError(o.ID(), o.State().String())
	}
	return s.Transition(ctx, orderID, order.Cancelled, true)
}

// ProgressOneStep advances the order's delivery by one movement step: the
// courier moves towards the current objective (pickup, then drop) and the
// order transitions as soon as the objective is within reach. A single call
// performs at most one transition.
func (s *LifecycleService) ProgressOneStep(ctx context.Context, orderID string, step float64) (*ProgressResult, error) {
	if step <= 0 {
		step = DefaultProgressStep
	}

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.State().IsTerminal() {
		return nil, errs.NewAlreadyTerminalError(o.ID(), o.State().String())
	}
	if o.CourierID() == nil {
		return nil, errs.NewNoCourierAssignedError(o.ID())
	}
	c, err := s.couriers.Get(ctx, *o.CourierID())
	if err != nil {
		return nil, err
	}

	var message string
	switch o.State() {
	case order.Assigned:
		message, err = s.stepTowards(ctx, o, c, o.Pickup(), order.PickedUp, step, "courier moving towards pickup")
	case order.PickedUp:
		_, err = s.Transition(ctx, o.ID(), order.InTransit, false)
		message = "package picked up, now in transit"
	case order.InTransit:
		message, err = s.stepTowards(ctx, o, c, o.Drop(), order.Delivered, step, "courier moving towards drop")
	default:
		return nil, errs.NewValueIsInvalidError("orderState")
	}
	if err != nil {
		return nil, err
	}

	stored, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	updatedCourier, err := s.couriers.Get(ctx, c.ID())
	if err != nil {
		return nil, err
	}
	return &ProgressResult{Order: stored, Courier: updatedCourier, Message: message}, nil
}

// Inspect assembles the diagnostic view for the order with the given ID.
func (s *LifecycleService) Inspect(ctx context.Context, orderID string) (*OrderInspection, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	inspection := &OrderInspection{Order: o, Threshold: services.ProximityThreshold}
	if o.CourierID() == nil {
		return inspection, nil
	}

	c, err := s.couriers.Get(ctx, *o.CourierID())
	if err != nil {
		return nil, err
	}
	decision := s.validator.CanProgress(o, c)
	inspection.Courier = c
	inspection.Decision = &decision
	inspection.ToPickup = c.Location().DegreeDistance(o.Pickup())
	inspection.ToDrop = c.Location().DegreeDistance(o.Drop())
	return inspection, nil
}

// stepTowards either performs the pending transition when the courier is close
// enough to target, or moves the courier one step closer.
func (s *LifecycleService) stepTowards(
	ctx context.Context,
	o *order.Order,
	c *courier.Courier,
	target kernel.Location,
	next order.State,
	step float64,
	movingMessage string,
) (string, error) {
	decision := s.validator.CanProgress(o, c)
	if decision.Allowed {
		if _, err := s.Transition(ctx, o.ID(), next, false); err != nil {
			return "", err
		}
		return decision.Reason, nil
	}
	c.MoveTowards(target, step)
	if err := s.couriers.Update(ctx, c); err != nil {
		return "", err
	}
	return movingMessage, nil
}

func (s *LifecycleService) progressionDecision(ctx context.Context, o *order.Order) (services.Decision, error) {
	var c *courier.Courier
	if o.CourierID() != nil {
		var err error
		c, err = s.couriers.Get(ctx, *o.CourierID())
		if err != nil {
			return services.Decision{}, err
		}
	}
	return s.validator.CanProgress(o, c), nil
}
