package order

// State represents the lifecycle state of an order.
// It implements a state machine with a fixed transition table to ensure
// orders follow the delivery workflow:
//
//	CREATED ──> ASSIGNED ──> PICKED_UP ──> IN_TRANSIT ──> DELIVERED
//	   │            │
//	   └────────────┴──> CANCELLED
//
// DELIVERED and CANCELLED are terminal; they have no outgoing transitions.
type State string

const (
	// Created is the initial state; the order is waiting for courier assignment.
	Created State = "CREATED"
	// Assigned means a courier has been bound and is heading to pickup.
	Assigned State = "ASSIGNED"
	// PickedUp means the courier holds the package at the pickup location.
	PickedUp State = "PICKED_UP"
	// InTransit means the courier is heading to the drop location.
	InTransit State = "IN_TRANSIT"
	// Delivered is the successful terminal state.
	Delivered State = "DELIVERED"
	// Cancelled is the aborted terminal state.
	Cancelled State = "CANCELLED"
)

// transitions is the authoritative table of structurally legal state changes.
// The key is the source state, the value the set of legal target states.
var transitions = map[State][]State{
	Created:   {Assigned, Cancelled},
	Assigned:  {PickedUp, Cancelled},
	PickedUp:  {InTransit},
	InTransit: {Delivered},
	Delivered: {},
	Cancelled: {},
}

// manualTransitions is the stricter allow-list for transitions requested directly
// by a caller. Only cancellation paths are permitted; all forward progress must
// come from simulated movement.
var manualTransitions = map[State][]State{
	Created:  {Cancelled},
	Assigned: {Cancelled},
}

// IsValid reports whether s is one of the six defined states.
func (s State) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// String returns the wire name of the state.
func (s State) String() string {
	return string(s)
}

// CanTransitionTo reports whether the transition table contains the edge s -> next.
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidNextStates returns every state reachable from s in one transition.
// Terminal states return an empty slice.
func (s State) ValidNextStates() []State {
	next := transitions[s]
	out := make([]State, len(next))
	copy(out, next)
	return out
}

// ValidNextStateNames returns ValidNextStates as plain strings, for error reporting.
func (s State) ValidNextStateNames() []string {
	next := transitions[s]
	out := make([]string, len(next))
	for i, st := range next {
		out[i] = string(st)
	}
	return out
}

// IsTerminal reports whether s has no outgoing transitions.
func (s State) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// ManualTransitionAllowed reports whether a caller may directly request the
// transition s -> next. Checked before the general table for manual requests.
func (s State) ManualTransitionAllowed(next State) bool {
	for _, allowed := range manualTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive reports whether an order in this state participates in movement
// simulation (has forward progress driven by its courier's position).
func (s State) IsActive() bool {
	return s == Assigned || s == PickedUp || s == InTransit
}
