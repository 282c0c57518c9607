// Package bootstrap wires the non-interactive lazystage subcommands: config
// loading, git service construction, and the status/commit command
// definitions shared by the CLI entry point.
package bootstrap

import (
	urfavecli "github.com/urfave/cli/v3"
)

// commonFlags returns the flags every subcommand accepts.
func commonFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to the repository (defaults to the current directory)",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=ls.key=value",
		},
	}
}
