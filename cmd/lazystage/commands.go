// Package main bridges the scriptable subcommands into the main CLI app.
package main

import (
	"github.com/chmouel/lazystage/internal/bootstrap"
	urfavecli "github.com/urfave/cli/v2"
	appiCli "github.com/urfave/cli/v3"
)

// bridgeCommand wraps a cli/v3 command so it can hang off the cli/v2 app.
// Flag parsing is delegated entirely to the wrapped command.
func bridgeCommand(build func() *appiCli.Command) *urfavecli.Command {
	inner := build()
	return &urfavecli.Command{
		Name:            inner.Name,
		Usage:           inner.Usage,
		SkipFlagParsing: true,
		Action: func(c *urfavecli.Context) error {
			args := append([]string{inner.Name}, c.Args().Slice()...)
			return build().Run(c.Context, args)
		},
	}
}

// statusCommand returns the status subcommand definition.
func statusCommand() *urfavecli.Command {
	return bridgeCommand(bootstrap.StatusCommand)
}

// commitCommand returns the commit subcommand definition.
func commitCommand() *urfavecli.Command {
	return bridgeCommand(bootstrap.CommitCommand)
}
