// Package main provides CLI flag definitions for lazystage.
package main

import (
	"fmt"
	"strings"

	"github.com/chmouel/lazystage/internal/theme"
	urfavecli "github.com/urfave/cli/v2"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via App.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to the repository to open",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme",
		},
		&urfavecli.BoolFlag{
			Name:  "list-themes",
			Usage: "List available UI themes",
		},
		&urfavecli.IntFlag{
			Name:  "commit-title-limit",
			Usage: "Max commit subject length enforced by the editor",
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

// completeGlobalFlags provides basic completion for global flags.
func completeGlobalFlags(c *urfavecli.Context) {
	// Complete subcommands if no args yet
	if c.NArg() == 0 {
		for _, cmd := range c.App.Commands {
			fmt.Println(cmd.Name)
		}
	}
}

// suggestConfigKeys returns config key suggestions matching the prefix.
// Returns suggestions in the format "ls.key=" for completion.
//
//nolint:unused // Preserved for potential future completion enhancements
func suggestConfigKeys(prefix string) []string {
	allKeys := []string{
		"repo_path", "theme", "debug_log", "auto_refresh", "commit_title_limit",
		"show_icons", "git_pager", "git_pager_args", "editor",
	}

	var matches []string
	for _, key := range allKeys {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			matches = append(matches, "ls."+key+"=")
		}
	}
	return matches
}

// suggestConfigValues returns value suggestions for a given config key.
//
//nolint:unused // Preserved for potential future completion enhancements
func suggestConfigValues(key string) []string {
	switch key {
	case "theme":
		return theme.AvailableThemes()
	case "auto_refresh", "show_icons":
		return []string{"true", "false"}
	default:
		return nil
	}
}
