// Package domain defines the core domain types for nskv.
//
// Domain types are pure values without IO dependencies:
//
//   - Identity: the namespace owner derived from a peer address
//   - Role: Guest or Manager, with a one-way elevation
//   - Errors: protocol error taxonomy with stable codes
package domain
