package repl

import (
	"sort"
	"strings"
)

// builtins are handled by the shell itself.
var builtins = []string{"exit", "quit", "history"}

// Completer suggests commands for the shell.
type Completer struct {
	commands []string
	top      map[string]bool
}

// NewCompleter creates a Completer for the given command paths
// ("teas", "teas list", ...). Shell built-ins are always included.
func NewCompleter(commands []string) *Completer {
	c := &Completer{top: make(map[string]bool)}
	for _, cmd := range append(append([]string{}, commands...), builtins...) {
		c.commands = append(c.commands, cmd)
		c.top[strings.Fields(cmd)[0]] = true
	}
	sort.Strings(c.commands)
	return c
}

// Known reports whether name is a top level command. An empty completer
// knows every name.
func (c *Completer) Known(name string) bool {
	return len(c.commands) == len(builtins) || c.top[name]
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
