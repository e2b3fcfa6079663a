// Package services contains domain services that operate across aggregates.
//
// The progression validator layers the physical precondition for automatic state
// advancement (courier proximity to the relevant target) on top of the purely
// structural transition table owned by the order package.
package services
