// Package usecases contains the application services that implement the
// system's operation surface over the repository ports.
//
// Three services split the work:
//   - AssignmentService owns every courier-availability decision behind a single
//     process-wide mutex
//   - LifecycleService owns order creation and all state transitions, manual
//     and automatic
//   - CourierService exposes courier queries and direct courier movement
//
// Expected business outcomes of assignment (no courier available, none in
// range) are returned as AssignmentResult variants, not errors.
package usecases
