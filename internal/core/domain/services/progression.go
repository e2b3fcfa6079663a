package services

import (
	"fmt"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// ProximityThreshold is the raw-degree distance below which a courier is
// considered to have reached a target coordinate.
const ProximityThreshold = 0.01

// Decision is the outcome of a progression check: whether the order may advance
// automatically, a human-readable reason, and the courier's current distance to
// the relevant target where one applies.
type Decision struct {
	Allowed  bool
	Reason   string
	Distance float64
}

// ProgressionValidator decides whether an order may advance automatically given
// its courier's current position. It is consulted only for automatic
// transitions; manual requests are governed by the manual allow-list instead.
//
// Decision by current state:
//   - CREATED: never (must be assigned first)
//   - ASSIGNED: courier within ProximityThreshold of pickup
//   - PICKED_UP: always (pickup handoff is instantaneous)
//   - IN_TRANSIT: courier within ProximityThreshold of drop
//   - DELIVERED, CANCELLED: never (terminal)
type ProgressionValidator struct{}

// NewProgressionValidator creates a ProgressionValidator.
func NewProgressionValidator() ProgressionValidator {
	return ProgressionValidator{}
}

// CanProgress evaluates the order against its courier's position. Pure given
// its inputs; nil entities yield a blocked decision rather than an error.
func (v ProgressionValidator) CanProgress(o *order.Order, c *courier.Courier) Decision {
	if o == nil || c == nil {
		return Decision{Allowed: false, Reason: "order or courier not found"}
	}

	switch o.State() {
	case order.Created:
		return Decision{Allowed: false, Reason: "order must be assigned to a courier first"}

	case order.Assigned:
		return v.checkProximity(c, o.Pickup(), "pickup")

	case order.PickedUp:
		return Decision{Allowed: true, Reason: "package picked up, ready for transit"}

	case order.InTransit:
		return v.checkProximity(c, o.Drop(), "drop")

	case order.Delivered, order.Cancelled:
		return Decision{Allowed: false, Reason: fmt.Sprintf("order is in terminal state: %s", o.State())}

	default:
		return Decision{Allowed: false, Reason: fmt.Sprintf("unknown order state: %s", o.State())}
	}
}

func (v ProgressionValidator) checkProximity(c *courier.Courier, target kernel.Location, label string) Decision {
	distance := c.Location().DegreeDistance(target)
	if distance <= ProximityThreshold {
		return Decision{
			Allowed:  true,
			Reason:   fmt.Sprintf("courier reached %s location", label),
			Distance: distance,
		}
	}

	return Decision{
		Allowed: false,
		Reason: fmt.Sprintf("courier is %.4f units away from %s location (threshold: %v)",
			distance, label, ProximityThreshold),
		Distance: distance,
	}
}
