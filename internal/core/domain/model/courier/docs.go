// Package courier contains the Courier aggregate.
//
// A courier is either available or bound to exactly one order; the two fields
// backing that invariant are only ever flipped together. Movement is expressed
// as single increments toward a target, matching the simulator's tick model.
package courier
