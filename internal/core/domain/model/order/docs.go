// Package order contains the Order aggregate and its lifecycle state machine.
//
// The transition table in state.go is the single source of structural legality
// for state changes; the separate manual allow-list restricts caller-requested
// transitions to cancellation paths. Physical preconditions for automatic
// progress (courier proximity) are not known to this package - they live in the
// domain services layer.
package order
