// Package main provides the entry point for nskv-server.
//
// The server hosts the namespaced key-value line protocol and, when
// enabled, the HTTP API with health and metrics endpoints.
//
// Usage:
//
//	nskv-server [flags]
//	nskv-server --config /etc/nskv/config.yaml --port 4000
//
// Configuration is layered: defaults, then the YAML file, then NSKV_*
// environment variables, then command-line flags. log.level and
// auth.secret are reloaded when the file changes.
package main
