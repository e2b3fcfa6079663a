package courier

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier represents a delivery courier. It is an aggregate root that manages
// courier identity, position, and the binding to the order it is working on.
//
// The availability invariant: a courier is unavailable exactly when it has a
// bound order. MarkBusy and MarkAvailable are the only two mutators of either
// field, and each always flips both, so no observation point can see the pair
// disagree.
type Courier struct {
	id        string
	name      string
	location  kernel.Location
	available bool
	orderID   *string
}

// NewCourier creates an available Courier at the given starting position.
func NewCourier(id string, name string, location kernel.Location) (*Courier, error) {
	c := &Courier{
		available: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
	); err != nil {
		return nil, err
	}

	c.location = location
	return c, nil
}

// Validate checks the Courier was properly constructed via NewCourier.
func (c *Courier) Validate() error {
	if c == nil || c.id == "" {
		return ErrCourierIsNotConstructed
	}
	return nil
}

// IsEqual compares two couriers by identifier.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id == other.id
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() string {
	return c.id
}

// Name returns the courier's display name.
func (c *Courier) Name() string {
	return c.name
}

// Location returns the courier's current position.
func (c *Courier) Location() kernel.Location {
	return c.location
}

// IsAvailable reports whether the courier can accept a new order.
func (c *Courier) IsAvailable() bool {
	return c.available
}

// OrderID returns the identifier of the bound order, or nil when idle.
func (c *Courier) OrderID() *string {
	return c.orderID
}

// MarkBusy binds the courier to an order and clears availability.
// Fails if the courier is already working on another order.
func (c *Courier) MarkBusy(orderID string) error {
	if orderID == "" {
		return errs.NewValueIsRequiredError("orderID")
	}
	if !c.available {
		bound := ""
		if c.orderID != nil {
			bound = *c.orderID
		}
		return errs.NewValueIsInvalidErrorWithCause("courier",
			fmt.Errorf("courier %s is already busy with order %s", c.id, bound))
	}

	c.available = false
	c.orderID = &orderID
	return nil
}

// MarkAvailable releases the courier's order binding and restores availability.
// Safe to call on an already idle courier.
func (c *Courier) MarkAvailable() {
	c.available = true
	c.orderID = nil
}

// SetLocation replaces the courier's current position.
func (c *Courier) SetLocation(location kernel.Location) {
	c.location = location
}

// MoveTowards advances the courier one movement increment toward target.
// When the remaining straight-line distance is below step the courier snaps
// exactly onto the target. Returns whether the target was reached.
func (c *Courier) MoveTowards(target kernel.Location, step float64) bool {
	next, reached := c.location.StepTowards(target, step)
	c.location = next
	return reached
}

// Clone returns an independent copy of the courier. The store hands out and
// accepts only clones, so entity mutations are observed atomically.
func (c *Courier) Clone() *Courier {
	clone := *c
	if c.orderID != nil {
		orderID := *c.orderID
		clone.orderID = &orderID
	}
	return &clone
}

func (c *Courier) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("id")
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}
