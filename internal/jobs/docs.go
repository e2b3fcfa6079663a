// Package jobs contains the background movement simulation. The simulator
// periodically advances every active order by one movement step, reusing the
// same progression logic the HTTP surface exposes for single orders.
package jobs
