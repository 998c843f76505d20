// Package metric provides Prometheus metrics for nskv.
//
// Metrics include:
//
//   - Connection gauges and counters
//   - Command counters by command and result
//   - Authentication outcomes
//   - Namespace count
//   - HTTP request counters
//
// Metrics are exposed at /metrics in Prometheus format when the HTTP
// surface is enabled.
package metric
