// Package httpserver provides the optional HTTP surface for nskv.
//
// It uses the Go standard library net/http for routing and serving,
// exposing the JSON key-value API, health checks and Prometheus metrics.
package httpserver
