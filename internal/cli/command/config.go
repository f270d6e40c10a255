package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/teataster-go/internal/cli/config"
	"github.com/yndnr/teataster-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Client configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPath,
			},
			{
				Name:  "init",
				Usage: "Write the effective configuration to the config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
			{
				Name:      "validate",
				Usage:     "Validate a config file",
				ArgsUsage: "[FILE]",
				Action:    configValidate,
			},
		},
	}
}

// configShow prints the configuration after file, environment and flags
// have been applied. Table output is the YAML file layout.
func configShow(c *cli.Context) error {
	rt := runtimeFrom(c)
	f, err := rt.format(c)
	if err != nil {
		return err
	}
	if f == output.FormatJSON {
		return rt.render(c, rt.cfg)
	}
	data, err := yaml.Marshal(rt.cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	fmt.Fprintf(rt.out(), "# %s\n", rt.cfgPath)
	_, err = rt.out().Write(data)
	return err
}

func configPath(c *cli.Context) error {
	rt := runtimeFrom(c)
	fmt.Fprintln(rt.out(), rt.cfgPath)
	return nil
}

func configInit(c *cli.Context) error {
	rt := runtimeFrom(c)
	if _, err := os.Stat(rt.cfgPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists, use --force to overwrite", rt.cfgPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := config.Save(rt.cfg, rt.cfgPath); err != nil {
		return err
	}
	rt.printf(c, "Wrote %s\n", rt.cfgPath)
	return nil
}

func configValidate(c *cli.Context) error {
	rt := runtimeFrom(c)
	path := rt.cfgPath
	if c.Args().Present() {
		path = c.Args().First()
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if _, err := config.Load(path, nil); err != nil {
		return err
	}
	rt.printf(c, "%s is valid.\n", path)
	return nil
}
