// Package repl provides the interactive shell of the teataster client.
//
// Each input line is split into arguments (with shell-style quoting) and
// handed to an Executor, so the shell runs the same commands as single
// command mode against one long-lived client.
//
//   - repl.go: read loop, built-in commands
//   - args.go: line splitting
//   - completer.go: command suggestions
//   - history.go: history persistence
package repl
