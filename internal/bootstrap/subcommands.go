package bootstrap

import (
	"fmt"
	"os"

	"github.com/chmouel/lazystage/internal/config"
	"github.com/chmouel/lazystage/internal/git"
)

// loadCLIConfig loads and configures the application configuration for CLI mode.
func loadCLIConfig(configFileFlag, repoFlag string, configOverrides []string) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(configFileFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if repoFlag != "" {
		expanded, err := config.ExpandPath(repoFlag)
		if err != nil {
			return nil, fmt.Errorf("error expanding repo path: %w", err)
		}
		cfg.RepoPath = expanded
	}

	if len(configOverrides) > 0 {
		if err := cfg.ApplyCLIOverrides(configOverrides); err != nil {
			return nil, fmt.Errorf("error applying config overrides: %w", err)
		}
	}

	return cfg, nil
}

// newCLIGitService creates a new git service configured for CLI mode.
func newCLIGitService(cfg *config.AppConfig) *git.Service {
	gitSvc := git.NewService(cliNotify, cliNotifyOnce)
	gitSvc.SetGitPager(cfg.GitPager)
	gitSvc.SetGitPagerArgs(cfg.GitPagerArgs)
	return gitSvc
}

// repoPathOrCwd resolves the working repository for a subcommand.
func repoPathOrCwd(cfg *config.AppConfig) string {
	if cfg.RepoPath != "" {
		return cfg.RepoPath
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// cliNotify is a notification callback for git operations in CLI mode.
func cliNotify(message, severity string) {
	if severity == "error" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n", message)
}

// cliNotifyOnce is a notification callback for git operations that should only fire once.
func cliNotifyOnce(_, message, severity string) {
	cliNotify(message, severity)
}
