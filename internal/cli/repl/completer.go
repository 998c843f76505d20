package repl

import (
	"sort"
	"strings"
)

// Completer suggests command names for a typed prefix.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the protocol and local commands.
func NewCompleter() *Completer {
	cmds := []string{
		"put", "get", "auth",
		"help", "history", "exit", "quit",
	}
	sort.Strings(cmds)
	return &Completer{commands: cmds}
}

// Complete returns the commands starting with prefix, case-insensitively.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
