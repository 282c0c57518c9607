package app

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/chmouel/lazystage/internal/config"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.RepoPath = t.TempDir()
	cfg.AutoRefresh = false
	cfg.ShowIcons = false
	return cfg
}

// TestModelInitialization verifies the model initializes correctly
func TestModelInitialization(t *testing.T) {
	cfg := testConfig(t)
	m := NewModel(cfg)
	defer m.Close()

	if m == nil {
		t.Fatal("NewModel returned nil")
	}
	if m.config != cfg {
		t.Error("Model config not set correctly")
	}
	if m.focus != focusFiles {
		t.Errorf("Expected focus to be focusFiles, got %d", m.focus)
	}
	if m.repoPath != cfg.RepoPath {
		t.Errorf("Expected repoPath %q, got %q", cfg.RepoPath, m.repoPath)
	}
}

// TestQuitKey tests that 'q' exits the program
func TestQuitKey(t *testing.T) {
	tm := teatest.NewTestModel(
		t,
		NewModel(testConfig(t)),
		teatest.WithInitialTermSize(120, 40),
	)

	// Wait for initial load
	time.Sleep(100 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	fm := tm.FinalModel(t)
	m, ok := fm.(*Model)
	if !ok {
		t.Fatal("Final model is not *Model type")
	}
	if !m.quitting {
		t.Error("Model should be marked as quitting after 'q' key")
	}
}

// TestNavigationKeys tests basic keyboard navigation does not wedge the app
func TestNavigationKeys(t *testing.T) {
	tm := teatest.NewTestModel(
		t,
		NewModel(testConfig(t)),
		teatest.WithInitialTermSize(120, 40),
	)

	time.Sleep(100 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	time.Sleep(50 * time.Millisecond)
	tm.Send(tea.KeyMsg{Type: tea.KeyUp})
	time.Sleep(50 * time.Millisecond)
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	time.Sleep(50 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}

// TestWindowResize tests window resize handling
func TestWindowResize(t *testing.T) {
	m := NewModel(testConfig(t))
	defer m.Close()

	msg := tea.WindowSizeMsg{Width: 100, Height: 30}

	newModel, _ := m.Update(msg)
	updatedModel, ok := newModel.(*Model)
	if !ok {
		t.Fatal("Update returned wrong type")
	}

	if updatedModel.windowWidth != 100 {
		t.Errorf("Expected windowWidth to be 100, got %d", updatedModel.windowWidth)
	}
	if updatedModel.windowHeight != 30 {
		t.Errorf("Expected windowHeight to be 30, got %d", updatedModel.windowHeight)
	}
}

// TestViewRendering tests that the View method doesn't panic and produces output
func TestViewRendering(t *testing.T) {
	m := NewModel(testConfig(t))
	defer m.Close()

	m.setWindowSize(120, 40)

	view := m.View()
	if view == "" {
		t.Error("View() returned empty string")
	}
	if !bytes.Contains([]byte(view), []byte("Lazystage")) {
		t.Error("View should contain 'Lazystage' header")
	}
}

// TestCleanup tests that the Close method properly cleans up resources
func TestCleanup(t *testing.T) {
	m := NewModel(testConfig(t))

	// Should not panic
	m.Close()

	// Should be safe to call multiple times
	m.Close()
}
