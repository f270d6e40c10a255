// Package command defines the teataster command-line client.
//
// Commands stand in for the pages of the Tea Taster app: the login page
// (login, unlock), the tea list and rating widget (teas) and the tasting
// notes page (notes). Each invocation builds one client, restores the
// stored session and drives the store by dispatching actions and waiting
// for their results. The shell command runs the same commands against a
// single long-lived client.
//
//   - root.go: root command, global flags
//   - runtime.go: the client shared by the commands of one invocation
//   - auth.go: login, unlock, lock, logout, status
//   - teas.go, notes.go: data commands
//   - config.go, version.go: local commands
//   - shell.go: interactive shell
package command
