package main

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/chmouel/lazystage/internal/config"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = writer

	fn()

	_ = writer.Close()
	os.Stdout = orig

	out, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return string(out)
}

func TestPrintThemes(t *testing.T) {
	out := captureStdout(t, func() {
		printThemes()
	})

	if !strings.Contains(out, "Available themes") {
		t.Fatalf("expected header to be printed, got %q", out)
	}
	if !strings.Contains(out, "dracula") {
		t.Fatalf("expected theme list to include dracula, got %q", out)
	}
}

func TestApplyThemeConfig(t *testing.T) {
	tests := []struct {
		name        string
		themeName   string
		expectError bool
	}{
		{name: "valid theme", themeName: "dracula"},
		{name: "valid theme uppercase", themeName: "DRACULA"},
		{name: "invalid theme", themeName: "nonexistent-theme", expectError: true},
		{name: "empty theme", themeName: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.GitPager = "delta"

			err := applyThemeConfig(cfg, tt.themeName)
			if tt.expectError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.expectError && tt.themeName != "" && cfg.Theme == "" {
				t.Error("expected theme to be set")
			}
		})
	}
}

func TestApplyRepoConfig(t *testing.T) {
	t.Run("flag takes precedence", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.RepoPath = "/from/config"
		if err := applyRepoConfig(cfg, "/from/flag"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.RepoPath != "/from/flag" {
			t.Errorf("repo path = %q, want /from/flag", cfg.RepoPath)
		}
	})

	t.Run("tilde is expanded", func(t *testing.T) {
		cfg := config.DefaultConfig()
		if err := applyRepoConfig(cfg, "~/repos/x"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.HasPrefix(cfg.RepoPath, "~") {
			t.Errorf("repo path not expanded: %q", cfg.RepoPath)
		}
	})

	t.Run("empty flag keeps config value", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.RepoPath = "/from/config"
		if err := applyRepoConfig(cfg, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.RepoPath != "/from/config" {
			t.Errorf("repo path = %q, want /from/config", cfg.RepoPath)
		}
	})
}

func TestSubcommandDefinitions(t *testing.T) {
	status := statusCommand()
	if status.Name != "status" || !status.SkipFlagParsing {
		t.Errorf("status command = %+v", status)
	}
	commit := commitCommand()
	if commit.Name != "commit" || !commit.SkipFlagParsing {
		t.Errorf("commit command = %+v", commit)
	}
}

func TestSuggestConfigKeys(t *testing.T) {
	all := suggestConfigKeys("")
	if len(all) == 0 {
		t.Fatal("expected suggestions")
	}
	for _, s := range all {
		if !strings.HasPrefix(s, "ls.") || !strings.HasSuffix(s, "=") {
			t.Errorf("malformed suggestion %q", s)
		}
	}

	themed := suggestConfigKeys("th")
	if len(themed) != 1 || themed[0] != "ls.theme=" {
		t.Errorf("themed = %v", themed)
	}
}

func TestSuggestConfigValues(t *testing.T) {
	if vals := suggestConfigValues("auto_refresh"); len(vals) != 2 {
		t.Errorf("bool values = %v", vals)
	}
	if vals := suggestConfigValues("theme"); len(vals) == 0 {
		t.Error("expected theme values")
	}
	if vals := suggestConfigValues("editor"); vals != nil {
		t.Errorf("expected nil, got %v", vals)
	}
}
