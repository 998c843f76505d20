// Package repl provides the interactive mode of nskv-cli.
//
//   - repl.go: prompt loop, local commands and server round trips
//   - completer.go: command name suggestions
//   - history.go: command history persisted under ~/.nskv
package repl
