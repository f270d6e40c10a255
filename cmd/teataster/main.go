package main

import (
	"os"

	"github.com/yndnr/teataster-go/internal/cli/command"
)

func main() {
	app := command.App(command.DefaultEnv())

	if err := app.Run(os.Args); err != nil {
		command.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
