package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// DeliveryType classifies how urgently an order must be delivered.
// EXPRESS orders restrict assignment to couriers within a fixed range of pickup.
type DeliveryType string

const (
	Express DeliveryType = "EXPRESS"
	Normal  DeliveryType = "NORMAL"
)

// IsValid reports whether t is a defined delivery type.
func (t DeliveryType) IsValid() bool {
	return t == Express || t == Normal
}

// PackageSize is the size class of a package.
type PackageSize string

const (
	SizeSmall  PackageSize = "small"
	SizeMedium PackageSize = "medium"
	SizeLarge  PackageSize = "large"
)

// IsValid reports whether s is a defined size class.
func (s PackageSize) IsValid() bool {
	return s == SizeSmall || s == SizeMedium || s == SizeLarge
}

// Package describes the parcel carried by an order.
type Package struct {
	Weight float64
	Size   PackageSize
}

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder factory method.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order represents a delivery order. It is the aggregate root that carries the
// order through its lifecycle from creation to a terminal state.
//
// Order maintains these invariants:
//   - The identifier is set at construction and never changes
//   - State only changes along edges of the transition table
//   - A bound courier identifier is present only in the active states
//     ASSIGNED, PICKED_UP and IN_TRANSIT
//
// Structural transition legality lives here; the physical preconditions for
// automatic progress are layered on top by the progression validator.
type Order struct {
	id           string
	pickup       kernel.Location
	drop         kernel.Location
	deliveryType DeliveryType
	pkg          Package
	state        State
	courierID    *string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewOrder creates an Order in state CREATED with no courier bound.
// All parameters are validated; violations are joined into one error.
func NewOrder(id string, pickup, drop kernel.Location, deliveryType DeliveryType, pkg Package) (*Order, error) {
	now := time.Now().UTC()
	o := &Order{
		state:     Created,
		createdAt: now,
		updatedAt: now,
	}

	if err := errors.Join(
		o.setID(id),
		o.setLocations(pickup, drop),
		o.setDeliveryType(deliveryType),
		o.setPackage(pkg),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed through NewOrder.
func (o *Order) Validate() error {
	if o == nil || o.id == "" {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id == other.id
}

// ID returns the order's unique identifier.
func (o *Order) ID() string {
	return o.id
}

// Pickup returns the pickup coordinate.
func (o *Order) Pickup() kernel.Location {
	return o.pickup
}

// Drop returns the drop coordinate.
func (o *Order) Drop() kernel.Location {
	return o.drop
}

// DeliveryType returns the order's delivery class.
func (o *Order) DeliveryType() DeliveryType {
	return o.deliveryType
}

// Package returns the package descriptor.
func (o *Order) Package() Package {
	return o.pkg
}

// State returns the current lifecycle state.
func (o *Order) State() State {
	return o.state
}

// CourierID returns the bound courier's identifier, or nil if none is bound.
func (o *Order) CourierID() *string {
	return o.courierID
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the timestamp of the last mutation.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Assign binds a courier to the order and advances it to ASSIGNED.
// Fails if the courier identifier is empty or the transition is not legal
// from the current state.
func (o *Order) Assign(courierID string) error {
	if courierID == "" {
		return errs.NewValueIsRequiredError("courierID")
	}
	if !o.state.CanTransitionTo(Assigned) {
		return errs.NewInvalidTransitionError(string(o.state), string(Assigned), o.state.ValidNextStateNames())
	}

	o.state = Assigned
	o.courierID = &courierID
	o.touch()
	return nil
}

// TransitionTo advances the order along a transition-table edge. Structural
// legality is the only check performed here; callers are responsible for the
// manual allow-list and progression preconditions. Reaching a terminal state
// drops the courier binding so the bound-courier invariant keeps holding.
func (o *Order) TransitionTo(next State) error {
	if !o.state.CanTransitionTo(next) {
		return errs.NewInvalidTransitionError(string(o.state), string(next), o.state.ValidNextStateNames())
	}

	o.state = next
	if next.IsTerminal() {
		o.courierID = nil
	}
	o.touch()
	return nil
}

// Clone returns an independent copy of the order. The store hands out and
// accepts only clones, so entity mutations are observed atomically.
func (o *Order) Clone() *Order {
	clone := *o
	if o.courierID != nil {
		courierID := *o.courierID
		clone.courierID = &courierID
	}
	return &clone
}

func (o *Order) touch() {
	o.updatedAt = time.Now().UTC()
}

func (o *Order) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("id")
	}
	o.id = id
	return nil
}

func (o *Order) setLocations(pickup, drop kernel.Location) error {
	o.pickup = pickup
	o.drop = drop
	return nil
}

func (o *Order) setDeliveryType(deliveryType DeliveryType) error {
	if !deliveryType.IsValid() {
		return errs.NewValueIsInvalidErrorWithCause("deliveryType",
			fmt.Errorf("%s must be either EXPRESS or NORMAL", deliveryType))
	}
	o.deliveryType = deliveryType
	return nil
}

func (o *Order) setPackage(pkg Package) error {
	if pkg.Weight <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("package weight",
			fmt.Errorf("%v is not greater than 0", pkg.Weight))
	}
	if !pkg.Size.IsValid() {
		return errs.NewValueIsInvalidErrorWithCause("package size",
			fmt.Errorf("%s must be small, medium, or large", pkg.Size))
	}
	o.pkg = pkg
	return nil
}
