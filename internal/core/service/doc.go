// Package service provides domain services for nskv.
//
// This package contains:
//
//   - Authenticator: shared-secret verification for AUTH and the HTTP
//     manager token
//   - RateLimiterRegistry: per-identity command budgets
//
// Services are safe for concurrent use by every connection handler.
package service
