package command

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/teataster-go/internal/cli/repl"
	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/store"
)

// clearScreen hides the last output when the session locks.
const clearScreen = "\033[H\033[2J"

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:   "shell",
		Usage:  "Start an interactive shell sharing one session",
		Action: shell,
	}
}

func shell(c *cli.Context) error {
	rt := runtimeFrom(c)
	if rt.shared {
		return errors.New("already in a shell")
	}
	ctx := c.Context

	a, err := rt.Client(ctx)
	if err != nil {
		return err
	}
	rt.shared = true
	defer func() { rt.shared = false }()

	out := rt.out()
	fmt.Fprintf(out, "Tea Taster %s. Type 'help' for commands, 'exit' to leave.\n", c.App.Version)

	if _, session, err := rt.Session(ctx); err == nil {
		fmt.Fprintf(out, "Welcome back, %s.\n", session.User.FullName())
	} else if errors.Is(err, domain.ErrVaultLocked) {
		fmt.Fprintln(out, "Session is locked. Run 'unlock' to continue.")
	} else if !errors.Is(err, domain.ErrNotLoggedIn) {
		fmt.Fprintf(out, "Error: %v\n", err)
	}

	hide := rt.cfg.Vault.HideScreenOnBackground
	unsubscribe := a.Store().Subscribe(func(_ store.State, act store.Action) {
		if act.Type != store.TypeSessionLocked {
			return
		}
		if hide {
			fmt.Fprint(out, clearScreen)
		}
		fmt.Fprintln(out, "\nSession locked. Run 'unlock' to continue.")
	})
	defer unsubscribe()

	exec := func(ctx context.Context, args []string) error {
		sub := App(rt.env)
		sub.Metadata[runtimeKey] = rt
		return sub.RunContext(ctx, append([]string{c.App.Name}, args...))
	}

	r := repl.New(exec,
		repl.WithIO(rt.term.Reader(), out),
		repl.WithPrompt(func() string { return shellPrompt(a.Store().State()) }),
		repl.WithCompleter(repl.NewCompleter(commandPaths(commands()))),
		repl.WithHistory(repl.NewHistory(filepath.Join(rt.cfg.DataDir, "history"))),
	)
	return r.Run(ctx)
}

func shellPrompt(s store.State) string {
	if u := store.SelectUser(s); u != nil && u.FirstName != "" {
		return fmt.Sprintf("teataster(%s)> ", u.FirstName)
	}
	return "teataster> "
}

// commandPaths lists every command as "name" and "name sub".
func commandPaths(cmds []*cli.Command) []string {
	paths := []string{"help"}
	for _, cmd := range cmds {
		if cmd.Name == "shell" {
			continue
		}
		paths = append(paths, cmd.Name)
		for _, sub := range cmd.Subcommands {
			paths = append(paths, cmd.Name+" "+sub.Name)
		}
	}
	return paths
}
