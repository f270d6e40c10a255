package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/teataster-go/internal/app"
	"github.com/yndnr/teataster-go/internal/cli/config"
	"github.com/yndnr/teataster-go/internal/infra/buildinfo"
)

// Env holds the streams and client options of the command-line app.
type Env struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// AppOptions are passed to app.New after the terminal prompt options.
	AppOptions []app.Option
}

// DefaultEnv uses the process streams.
func DefaultEnv() Env {
	return Env{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// App creates the CLI application.
func App(env Env) *cli.App {
	return &cli.App{
		Name:      "teataster",
		Usage:     "Tea Taster command-line client",
		Version:   buildinfo.String(),
		Reader:    env.In,
		Writer:    env.Out,
		ErrWriter: env.Err,
		Flags:     globalFlags(),
		Commands:  commands(),
		Metadata:  map[string]any{},
		Before: func(c *cli.Context) error {
			if runtimeFrom(c) != nil {
				return nil
			}
			rt, err := newRuntime(c, env)
			if err != nil {
				return err
			}
			c.App.Metadata[runtimeKey] = rt
			return nil
		},
		After: func(c *cli.Context) error {
			if rt := runtimeFrom(c); rt != nil && !rt.shared {
				return rt.Close()
			}
			return nil
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func commands() []*cli.Command {
	return []*cli.Command{
		LoginCommand(),
		UnlockCommand(),
		LockCommand(),
		LogoutCommand(),
		StatusCommand(),
		TeasCommand(),
		NotesCommand(),
		ShellCommand(),
		ConfigCommand(),
		VersionCommand(),
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default ~/.teataster/config.yaml)",
			EnvVars: []string{"TEATASTER_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Data service URL (e.g., http://localhost:5080)",
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "Directory for the vault, preferences and history",
		},
		&cli.StringFlag{
			Name:  "platform",
			Usage: "Vault platform: native (Badger on disk) or web (memory)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "biometrics",
			Usage:   "Simulate an available biometric sensor",
			EnvVars: []string{"TEATASTER_BIOMETRICS"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Log debug output to stderr",
		},
	}
}

// overrides turns the set global flags into config keys.
func overrides(c *cli.Context) map[string]any {
	values := map[string]any{}
	set := func(flag, key string) {
		if c.IsSet(flag) {
			values[key] = c.String(flag)
		}
	}
	set("server", "data_service")
	set("data-dir", "data_dir")
	set("platform", "vault.platform")
	set("output", "output")
	if c.Bool("verbose") {
		values["log.level"] = "debug"
		values["log.file"] = config.LogToStderr
	}
	return values
}

// PrintError prints an error message to stderr.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}
