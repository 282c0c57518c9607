package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/git"
	"github.com/chmouel/lazystage/internal/models"
)

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.confirmAction != nil {
		return m.handleConfirmKey(msg)
	}

	switch m.focus {
	case focusCommitTitle, focusCommitDesc:
		return m.handleCommitKey(msg)
	case focusDiff:
		return m.handleDiffKey(msg)
	case focusFilter:
		return m.handleFilterKey(msg)
	default:
		return m.handleFilesKey(msg)
	}
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		action := m.confirmAction
		m.confirmAction = nil
		m.confirmMessage = ""
		return m, action()
	case "n", "N", "esc", "q":
		m.confirmAction = nil
		m.confirmMessage = ""
	}
	return m, nil
}

func (m *Model) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.cursor = 0
		m.clampCursor()
	case "G", "end":
		m.cursor = len(m.rows) - 1
		m.clampCursor()
		if len(m.rows) > 0 && m.rows[m.cursor].kind == rowHeader {
			m.moveCursor(-1)
		}
	case " ":
		return m, m.toggleStage()
	case "a":
		return m, m.stageAll()
	case "d", "enter":
		return m, m.showDiff()
	case "x":
		return m.confirmDiscard()
	case "c":
		m.openCommitEditor(false)
	case "A":
		m.openCommitEditor(true)
	case "r":
		m.notices.clear()
		return m, tea.Batch(m.loadStatus(), m.loadBranchInfo())
	case "/":
		m.focus = focusFilter
		return m, m.filter.Focus()
	case "esc":
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.rebuildRows()
			m.clampCursor()
			return m, nil
		}
		m.notices.clear()
	}
	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.SetValue("")
		fallthrough
	case "enter":
		m.focus = focusFiles
		m.filter.Blur()
		m.rebuildRows()
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.rebuildRows()
	m.clampCursor()
	return m, cmd
}

func (m *Model) handleDiffKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "d":
		m.focus = focusFiles
		m.diffPath = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.diff, cmd = m.diff.Update(msg)
	return m, cmd
}

func (m *Model) handleCommitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeCommitEditor()
		return m, nil
	case "tab", "shift+tab":
		if m.focus == focusCommitTitle {
			m.focus = focusCommitDesc
			m.title.Blur()
			return m, m.desc.Focus()
		}
		m.focus = focusCommitTitle
		m.desc.Blur()
		return m, m.title.Focus()
	case "enter":
		if m.focus == focusCommitTitle {
			m.focus = focusCommitDesc
			m.title.Blur()
			return m, m.desc.Focus()
		}
	case "ctrl+s":
		return m, m.submitCommit()
	}

	var cmd tea.Cmd
	if m.focus == focusCommitTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	return m, cmd
}

// toggleStage stages the selected file when it sits in the untracked or
// unstaged bucket, and unstages it when it is already in the index.
func (m *Model) toggleStage() tea.Cmd {
	rec := m.selectedRecord()
	if rec == nil {
		return nil
	}
	path := rec.Path
	staged := rec.Bucket == models.BucketStaged
	return func() tea.Msg {
		if staged {
			m.git.UnstageFile(m.ctx, m.repoPath, path)
		} else {
			m.git.StageFile(m.ctx, m.repoPath, path)
		}
		return statusLoadedMsg{set: m.git.LoadStatus(m.ctx, m.repoPath)}
	}
}

func (m *Model) stageAll() tea.Cmd {
	return func() tea.Msg {
		m.git.StageAll(m.ctx, m.repoPath)
		return statusLoadedMsg{set: m.git.LoadStatus(m.ctx, m.repoPath)}
	}
}

func (m *Model) showDiff() tea.Cmd {
	rec := m.selectedRecord()
	if rec == nil {
		return nil
	}
	path := rec.Path
	bucket := rec.Bucket
	return func() tea.Msg {
		var content string
		switch bucket {
		case models.BucketUntracked:
			content = m.git.DiffUntracked(m.ctx, m.repoPath, path)
		case models.BucketStaged:
			content = m.git.Diff(m.ctx, m.repoPath, path, true)
		default:
			content = m.git.Diff(m.ctx, m.repoPath, path, false)
		}
		return diffLoadedMsg{path: path, content: content}
	}
}

// confirmDiscard arms the confirmation prompt for a destructive revert:
// checkout for tracked files, nothing for untracked ones (deleting those is
// out of scope, the file is simply left alone).
func (m *Model) confirmDiscard() (tea.Model, tea.Cmd) {
	rec := m.selectedRecord()
	if rec == nil {
		return m, nil
	}
	if rec.Bucket == models.BucketUntracked {
		m.notices.add("Untracked file, nothing to discard", "info")
		return m, nil
	}
	path := rec.Path
	staged := rec.Bucket == models.BucketStaged
	m.confirmMessage = "Discard changes to " + path + "? (y/n)"
	m.confirmAction = func() tea.Cmd {
		return func() tea.Msg {
			if staged {
				m.git.UnstageFile(m.ctx, m.repoPath, path)
			}
			m.git.CheckoutFile(m.ctx, m.repoPath, path)
			return statusLoadedMsg{set: m.git.LoadStatus(m.ctx, m.repoPath)}
		}
	}
	return m, nil
}

func (m *Model) openCommitEditor(amend bool) {
	if m.reconciler.HasConflicts() {
		m.notices.add("Resolve conflicts before committing", "error")
		return
	}
	if !amend && len(m.buckets[models.BucketStaged]) == 0 {
		m.notices.add("Nothing staged to commit", "warning")
		return
	}
	m.amend = amend
	if amend && m.title.Value() == "" {
		m.title.SetValue(m.git.HeadSubject(m.ctx, m.repoPath))
	}
	m.focus = focusCommitTitle
	m.title.Focus()
}

func (m *Model) closeCommitEditor() {
	m.focus = focusFiles
	m.title.Blur()
	m.desc.Blur()
}

func (m *Model) submitCommit() tea.Cmd {
	message, err := git.CleanCommitMessage(m.title.Value(), m.desc.Value())
	if err != nil {
		m.notices.add(err.Error(), "error")
		return nil
	}
	amend := m.amend
	return func() tea.Msg {
		return commitDoneMsg{result: m.git.Commit(m.ctx, m.repoPath, message, amend)}
	}
}
