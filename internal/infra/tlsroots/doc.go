// Package tlsroots builds TLS server configuration for the HTTP surface.
//
//   - roots.go: client CA pool loading (file or directory)
//   - reloader.go: key pair hot-reload via fsnotify
//   - config.go: tls.Config assembly
package tlsroots
