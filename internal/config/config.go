// Package config loads application configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chmouel/lazystage/internal/theme"
	"gopkg.in/yaml.v3"
)

// DefaultCommitTitleLimit is the default max length for the commit subject.
const DefaultCommitTitleLimit = 50

// AppConfig defines the global lazystage configuration options.
type AppConfig struct {
	RepoPath         string   // Repository to open, defaults to the working directory
	Theme            string   // Theme name: see AvailableThemes in internal/theme
	DebugLog         string   // Debug log file path
	AutoRefresh      bool     // Watch the repository and refresh the status view
	CommitTitleLimit int      // Max commit subject length enforced by the editor
	ShowIcons        bool     // Render Nerd Font icons next to file names
	GitPager         string   // Diff formatter command (e.g. "delta")
	GitPagerArgs     []string // Extra args for the diff formatter
	GitPagerArgsSet  bool     `yaml:"-"`
	Editor           string   // External editor for resolving conflicts
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Theme:            "",
		AutoRefresh:      true,
		CommitTitleLimit: DefaultCommitTitleLimit,
		ShowIcons:        true,
		GitPager:         "delta",
		GitPagerArgs:     DefaultPagerArgsForTheme(theme.DraculaName),
	}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}
	switch v := value.(type) {
	case int:
		return v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

func normalizeArgsList(value any) []string {
	if value == nil {
		return []string{}
	}
	switch v := value.(type) {
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return []string{}
		}
		return strings.Fields(text)
	case []any:
		args := []string{}
		for _, item := range v {
			if item == nil {
				continue
			}
			text := strings.TrimSpace(fmt.Sprintf("%v", item))
			if text != "" {
				args = append(args, text)
			}
		}
		return args
	}
	return []string{}
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()

	if repoPath, ok := data["repo_path"].(string); ok {
		repoPath = strings.TrimSpace(repoPath)
		if repoPath != "" {
			cfg.RepoPath = repoPath
		}
	}
	if debugLog, ok := data["debug_log"].(string); ok {
		debugLog = strings.TrimSpace(debugLog)
		if debugLog != "" {
			cfg.DebugLog = debugLog
		}
	}
	if editor, ok := data["editor"].(string); ok {
		editor = strings.TrimSpace(editor)
		if editor != "" {
			cfg.Editor = editor
		}
	}
	if pager, ok := data["git_pager"].(string); ok {
		cfg.GitPager = strings.TrimSpace(pager)
	}
	if _, ok := data["git_pager_args"]; ok {
		cfg.GitPagerArgs = normalizeArgsList(data["git_pager_args"])
		cfg.GitPagerArgsSet = true
	}

	cfg.AutoRefresh = coerceBool(data["auto_refresh"], true)
	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.CommitTitleLimit = coerceInt(data["commit_title_limit"], DefaultCommitTitleLimit)
	if cfg.CommitTitleLimit <= 0 {
		cfg.CommitTitleLimit = DefaultCommitTitleLimit
	}

	if themeName, ok := data["theme"].(string); ok {
		if normalized := NormalizeThemeName(themeName); normalized != "" {
			cfg.Theme = normalized
		}
	}
	if !cfg.GitPagerArgsSet {
		cfg.GitPagerArgs = DefaultPagerArgsForTheme(cfg.Theme)
	}

	return cfg
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig reads the application configuration from a YAML file. When
// configPath is empty the default location is tried; a missing file yields
// the default configuration, not an error.
func LoadConfig(configPath string) (*AppConfig, error) {
	var paths []string
	if configPath != "" {
		expanded, err := ExpandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		paths = []string{expanded}
	} else {
		base := filepath.Join(getConfigDir(), "lazystage")
		paths = []string{
			filepath.Join(base, "config.yaml"),
			filepath.Join(base, "config.yml"),
		}
	}

	for _, path := range paths {
		dataBytes, err := os.ReadFile(path) //nolint:gosec
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return DefaultConfig(), fmt.Errorf("failed to read config %s: %w", path, err)
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(dataBytes, &yamlData); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg := parseConfig(yamlData)
		return cfg, cfg.finalize()
	}

	cfg := DefaultConfig()
	return cfg, cfg.finalize()
}

func (c *AppConfig) finalize() error {
	if c.Theme == "" {
		c.Theme = theme.DefaultDark()
		if !c.GitPagerArgsSet {
			c.GitPagerArgs = DefaultPagerArgsForTheme(c.Theme)
		}
	}
	return nil
}

// ApplyCLIOverrides applies --config=ls.key=value overrides on top of the
// loaded configuration. They take the highest precedence.
func (c *AppConfig) ApplyCLIOverrides(overrides []string) error {
	data := make(map[string]any, len(overrides))
	for _, override := range overrides {
		kv := strings.SplitN(override, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("invalid config override %q (want ls.key=value)", override)
		}
		key := strings.TrimPrefix(strings.TrimSpace(kv[0]), "ls.")
		if key == "" {
			return fmt.Errorf("invalid config override %q (empty key)", override)
		}
		data[key] = kv[1]
	}

	merged := parseOverrides(c, data)
	*c = *merged
	return nil
}

// parseOverrides re-runs the scalar parsing on top of an existing config.
func parseOverrides(base *AppConfig, data map[string]any) *AppConfig {
	cfg := *base

	if v, ok := data["repo_path"]; ok {
		cfg.RepoPath = strings.TrimSpace(fmt.Sprintf("%v", v))
	}
	if v, ok := data["debug_log"]; ok {
		cfg.DebugLog = strings.TrimSpace(fmt.Sprintf("%v", v))
	}
	if v, ok := data["editor"]; ok {
		cfg.Editor = strings.TrimSpace(fmt.Sprintf("%v", v))
	}
	if v, ok := data["git_pager"]; ok {
		cfg.GitPager = strings.TrimSpace(fmt.Sprintf("%v", v))
	}
	if v, ok := data["git_pager_args"]; ok {
		cfg.GitPagerArgs = normalizeArgsList(v)
		cfg.GitPagerArgsSet = true
	}
	if v, ok := data["auto_refresh"]; ok {
		cfg.AutoRefresh = coerceBool(v, cfg.AutoRefresh)
	}
	if v, ok := data["show_icons"]; ok {
		cfg.ShowIcons = coerceBool(v, cfg.ShowIcons)
	}
	if v, ok := data["commit_title_limit"]; ok {
		cfg.CommitTitleLimit = coerceInt(v, cfg.CommitTitleLimit)
	}
	if v, ok := data["theme"]; ok {
		if normalized := NormalizeThemeName(fmt.Sprintf("%v", v)); normalized != "" {
			cfg.Theme = normalized
			if !cfg.GitPagerArgsSet {
				cfg.GitPagerArgs = DefaultPagerArgsForTheme(normalized)
			}
		}
	}

	return &cfg
}

// ExpandPath expands a leading ~ and environment variables in path.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

// DefaultPagerArgsForTheme returns the default delta arguments for a theme.
func DefaultPagerArgsForTheme(themeName string) []string {
	switch themeName {
	case theme.CleanLightName:
		return []string{"--syntax-theme", "GitHub"}
	case theme.SolarizedDarkName:
		return []string{"--syntax-theme", "\"Solarized (dark)\""}
	case theme.GruvboxDarkName:
		return []string{"--syntax-theme", "\"Gruvbox Dark\""}
	case theme.NordName:
		return []string{"--syntax-theme", "Nord"}
	default:
		return []string{"--syntax-theme", "Dracula"}
	}
}

// NormalizeThemeName returns the canonical theme name if it is supported.
func NormalizeThemeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case theme.DraculaName,
		theme.CleanLightName,
		theme.SolarizedDarkName,
		theme.GruvboxDarkName,
		theme.NordName:
		return name
	default:
		return ""
	}
}
