// Package logger provides structured logging for nskv.
//
// This package wraps the standard library log/slog:
//
//   - logger.go: Logger interface, configuration and global default
//   - context.go: Context-aware logging with connection/request IDs
//   - redact.go: Sensitive data redaction
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering with runtime adjustment
//   - Automatic masking of secrets and manager tokens
//   - Context propagation for connection tracing
package logger
