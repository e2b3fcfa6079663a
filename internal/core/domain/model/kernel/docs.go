// Package kernel provides the core domain primitives shared across the dispatch
// domain model.
//
// The package currently contains a single building block:
//   - Location: an immutable geographic coordinate with the distance and
//     single-step movement calculations the rest of the domain is built on.
//
// Two distance scales coexist on purpose. Courier ranking and range checks use the
// scaled kilometer distance (DistanceKm); arrival detection uses raw degree
// distances (DegreeDistance for the proximity threshold, straight-line degrees
// inside StepTowards for movement increments).
package kernel
