// Package main is the entry point for the lazystage application.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/app"
	"github.com/chmouel/lazystage/internal/buildinfo"
	"github.com/chmouel/lazystage/internal/config"
	"github.com/chmouel/lazystage/internal/log"
	"github.com/chmouel/lazystage/internal/theme"
	urfavecli "github.com/urfave/cli/v2"
	"golang.org/x/term"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()

	cliApp := &urfavecli.App{
		Name:                 "lazystage",
		Usage:                "A TUI tool to stage, unstage and commit changes",
		Version:              buildinfo.Version(),
		EnableBashCompletion: true,

		Flags: globalFlags(),

		Commands: []*urfavecli.Command{
			statusCommand(),
			commitCommand(),
		},

		Before: func(c *urfavecli.Context) error {
			// Note: --version is handled automatically by urfave/cli
			if c.Bool("list-themes") {
				printThemes()
				os.Exit(0)
			}
			return nil
		},

		Action: runTUI,

		BashComplete: completeGlobalFlags,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// runTUI is the default action that launches the TUI when no subcommand is given.
func runTUI(c *urfavecli.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; use the status or commit subcommands for scripting")
	}

	// Set up debug logging before loading config
	if debugLog := c.String("debug-log"); debugLog != "" {
		expanded, err := config.ExpandPath(debugLog)
		if err != nil {
			expanded = debugLog
		}
		if err := log.SetFile(expanded); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", expanded, err)
		}
	}

	cfg, err := config.LoadConfig(c.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// If debug log wasn't set via flag, check if it's in the config
	if c.String("debug-log") == "" {
		if cfg.DebugLog != "" {
			path := cfg.DebugLog
			if expanded, err := config.ExpandPath(cfg.DebugLog); err == nil {
				path = expanded
			}
			if err := log.SetFile(path); err != nil {
				fmt.Fprintf(os.Stderr, "Error opening debug log file from config %q: %v\n", path, err)
			}
		} else {
			// No debug log configured, discard any buffered logs
			_ = log.SetFile("")
		}
	}

	if err := applyThemeConfig(cfg, c.String("theme")); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		_ = log.Close()
		return err
	}

	if err := applyRepoConfig(cfg, c.String("repo")); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		_ = log.Close()
		return err
	}

	if limit := c.Int("commit-title-limit"); limit > 0 {
		cfg.CommitTitleLimit = limit
	}

	// Apply CLI config overrides (highest precedence)
	if configOverrides := c.StringSlice("config"); len(configOverrides) > 0 {
		if err := cfg.ApplyCLIOverrides(configOverrides); err != nil {
			fmt.Fprintf(os.Stderr, "Error applying config overrides: %v\n", err)
			_ = log.Close()
			return err
		}
	}

	model := app.NewModel(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	_, err = p.Run()
	model.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		_ = log.Close()
		return err
	}

	if err := log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", err)
	}

	return nil
}

// applyRepoConfig resolves the repository path flag, expanding ~ and
// environment variables the same way config values are expanded.
func applyRepoConfig(cfg *config.AppConfig, repoFlag string) error {
	switch {
	case repoFlag != "":
		expanded, err := config.ExpandPath(repoFlag)
		if err != nil {
			return fmt.Errorf("error expanding repo path: %w", err)
		}
		cfg.RepoPath = expanded
	case cfg.RepoPath != "":
		if expanded, err := config.ExpandPath(cfg.RepoPath); err == nil {
			cfg.RepoPath = expanded
		}
	}
	return nil
}

// printThemes prints the available UI themes and their default pager args.
func printThemes() {
	names := theme.AvailableThemes()
	sort.Strings(names)
	fmt.Println("Available themes:")
	for _, name := range names {
		fmt.Printf("  %-16s -> delta %v\n", name, config.DefaultPagerArgsForTheme(name))
	}
}

// applyThemeConfig applies theme configuration from command line flag.
func applyThemeConfig(cfg *config.AppConfig, themeName string) error {
	if themeName == "" {
		return nil
	}

	normalized := config.NormalizeThemeName(themeName)
	if normalized == "" {
		return fmt.Errorf("unknown theme %q", themeName)
	}

	cfg.Theme = normalized
	if !cfg.GitPagerArgsSet && filepath.Base(cfg.GitPager) == "delta" {
		cfg.GitPagerArgs = config.DefaultPagerArgsForTheme(normalized)
	}

	return nil
}
