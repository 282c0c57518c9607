package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/config"
	"github.com/chmouel/lazystage/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.RepoPath = t.TempDir()
	cfg.AutoRefresh = false
	cfg.ShowIcons = false
	m := NewModel(cfg)
	t.Cleanup(m.Close)
	m.setWindowSize(100, 40)
	return m
}

func feedStatus(m *Model, set *models.FileStatusSet) {
	actions := m.reconciler.Reconcile(set)
	m.applyActions(actions)
	m.counts = models.CountBuckets(set)
}

func rowPaths(m *Model) []string {
	var out []string
	for _, r := range m.rows {
		if r.kind == rowFile {
			out = append(out, r.rec.Path)
		}
	}
	return out
}

func TestApplyActionsBuildsBuckets(t *testing.T) {
	m := newTestModel(t)

	set := models.NewFileStatusSet()
	set.Append("untracked.txt", "?")
	set.Append("edited.go", "M")
	set.Append("staged.go", "M")
	set.SetStatus(2, models.StatusModified|models.StatusInIndex)
	feedStatus(m, set)

	require.Len(t, m.buckets[models.BucketUntracked], 1)
	require.Len(t, m.buckets[models.BucketUnstaged], 1)
	require.Len(t, m.buckets[models.BucketStaged], 1)

	// Three headers plus three files, untracked before unstaged before staged.
	require.Len(t, m.rows, 6)
	assert.Equal(t, []string{"untracked.txt", "edited.go", "staged.go"}, rowPaths(m))
	assert.Equal(t, rowHeader, m.rows[0].kind)
}

func TestApplyActionsMovePreservesSelection(t *testing.T) {
	m := newTestModel(t)

	set := models.NewFileStatusSet()
	set.Append("a.go", "M")
	set.Append("b.go", "M")
	feedStatus(m, set)

	// Select b.go.
	m.moveCursor(1)
	require.Equal(t, "b.go", m.selectedPath)

	// b.go gets staged: it moves buckets but stays selected.
	next := models.NewFileStatusSet()
	next.Append("a.go", "M")
	next.Append("b.go", "M")
	next.SetStatus(1, models.StatusModified|models.StatusInIndex)
	feedStatus(m, next)

	assert.Equal(t, "b.go", m.selectedPath)
	require.Less(t, m.cursor, len(m.rows))
	assert.Equal(t, "b.go", m.rows[m.cursor].rec.Path)
	assert.Equal(t, models.BucketStaged, m.rows[m.cursor].bucket)
}

func TestApplyActionsRemoveClampsCursor(t *testing.T) {
	m := newTestModel(t)

	set := models.NewFileStatusSet()
	set.Append("only.go", "M")
	feedStatus(m, set)
	m.clampCursor()
	require.Equal(t, "only.go", m.selectedPath)

	feedStatus(m, models.NewFileStatusSet())
	assert.Empty(t, m.rows)
	assert.Equal(t, 0, m.cursor)
	assert.Empty(t, m.selectedPath)
}

func TestCursorSkipsHeaders(t *testing.T) {
	m := newTestModel(t)

	set := models.NewFileStatusSet()
	set.Append("x.txt", "?")
	set.Append("y.go", "M")
	feedStatus(m, set)
	m.clampCursor()

	// Layout: header, x.txt, header, y.go.
	require.Equal(t, "x.txt", m.selectedPath)
	m.moveCursor(1)
	assert.Equal(t, "y.go", m.selectedPath)
	m.moveCursor(1)
	assert.Equal(t, "y.go", m.selectedPath)
	m.moveCursor(-1)
	assert.Equal(t, "x.txt", m.selectedPath)
}

func TestOpenCommitEditorBlockedByConflicts(t *testing.T) {
	m := newTestModel(t)

	set := models.NewFileStatusSet()
	set.Append("clash.go", "U")
	feedStatus(m, set)

	m.openCommitEditor(false)
	assert.Equal(t, focusFiles, m.focus)
	n, ok := m.notices.latest()
	require.True(t, ok)
	assert.Contains(t, n.Message, "conflicts")
}

func TestOpenCommitEditorNeedsStagedFiles(t *testing.T) {
	m := newTestModel(t)

	set := models.NewFileStatusSet()
	set.Append("edited.go", "M")
	feedStatus(m, set)

	m.openCommitEditor(false)
	assert.Equal(t, focusFiles, m.focus)
	n, ok := m.notices.latest()
	require.True(t, ok)
	assert.Contains(t, n.Message, "Nothing staged")
}

func TestOpenCommitEditorWithStagedFile(t *testing.T) {
	m := newTestModel(t)

	set := models.NewFileStatusSet()
	set.Append("staged.go", "M")
	set.SetStatus(0, models.StatusModified|models.StatusInIndex)
	feedStatus(m, set)

	m.openCommitEditor(false)
	assert.Equal(t, focusCommitTitle, m.focus)
	assert.False(t, m.amend)
}

func TestCommitDoneResetsEditor(t *testing.T) {
	m := newTestModel(t)
	m.title.SetValue("a commit")
	m.desc.SetValue("details")
	m.focus = focusCommitTitle
	m.amend = true

	_, cmd := m.handleCommitDone(models.CommitResult{Success: true, Sha: "abc1234", Msg: "a commit"})
	require.NotNil(t, cmd)
	assert.Empty(t, m.title.Value())
	assert.Empty(t, m.desc.Value())
	assert.False(t, m.amend)
	assert.Equal(t, focusFiles, m.focus)

	n, ok := m.notices.latest()
	require.True(t, ok)
	assert.Contains(t, n.Message, "abc1234")
}

func TestCommitDoneFailureKeepsMessage(t *testing.T) {
	m := newTestModel(t)
	m.title.SetValue("doomed")
	m.focus = focusCommitTitle

	m.handleCommitDone(models.CommitResult{Success: false, Msg: "doomed"})
	assert.Equal(t, "doomed", m.title.Value())
	assert.Equal(t, focusCommitTitle, m.focus)
}

func TestSubmitCommitEmptyTitle(t *testing.T) {
	m := newTestModel(t)
	m.title.SetValue("   ")

	cmd := m.submitCommit()
	assert.Nil(t, cmd)
	n, ok := m.notices.latest()
	require.True(t, ok)
	assert.Equal(t, "error", n.Severity)
}

func TestConfirmKeyCancel(t *testing.T) {
	m := newTestModel(t)
	called := false
	m.confirmMessage = "sure?"
	m.confirmAction = func() tea.Cmd {
		called = true
		return nil
	}

	m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.False(t, called)
	assert.Nil(t, m.confirmAction)
	assert.Empty(t, m.confirmMessage)
}

func TestConfirmKeyAccept(t *testing.T) {
	m := newTestModel(t)
	called := false
	m.confirmMessage = "sure?"
	m.confirmAction = func() tea.Cmd {
		called = true
		return nil
	}

	m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	assert.True(t, called)
	assert.Nil(t, m.confirmAction)
}

func TestFilterHidesNonMatchingRows(t *testing.T) {
	m := newTestModel(t)

	set := models.NewFileStatusSet()
	set.Append("alpha.go", "M")
	set.Append("beta.txt", "M")
	set.Append("gamma.go", "?")
	feedStatus(m, set)

	m.filter.SetValue("go")
	m.rebuildRows()
	m.clampCursor()
	assert.Equal(t, []string{"gamma.go", "alpha.go"}, rowPaths(m))

	m.filter.SetValue("nomatch")
	m.rebuildRows()
	m.clampCursor()
	assert.Empty(t, rowPaths(m))

	// Clearing the filter brings everything back.
	m.filter.SetValue("")
	m.rebuildRows()
	m.clampCursor()
	assert.Len(t, rowPaths(m), 3)
}

func TestNoticeInbox(t *testing.T) {
	inbox := newNoticeInbox()

	_, ok := inbox.latest()
	assert.False(t, ok)

	inbox.add("one", "info")
	inbox.add("two", "error")
	n, ok := inbox.latest()
	require.True(t, ok)
	assert.Equal(t, "two", n.Message)
	assert.Equal(t, "error", n.Severity)

	inbox.addOnce("key", "first", "warning")
	inbox.addOnce("key", "second", "warning")
	n, _ = inbox.latest()
	assert.Equal(t, "first", n.Message)

	inbox.clear()
	_, ok = inbox.latest()
	assert.False(t, ok)
}

func TestViewRendersBucketsAndFooter(t *testing.T) {
	m := newTestModel(t)

	set := models.NewFileStatusSet()
	set.Append("fresh.txt", "?")
	set.Append("edited.go", "M")
	feedStatus(m, set)
	m.clampCursor()

	view := m.View()
	assert.Contains(t, view, "Untracked files")
	assert.Contains(t, view, "Unstaged changes")
	assert.Contains(t, view, "fresh.txt")
	assert.Contains(t, view, "edited.go")
	assert.Contains(t, view, "Stage/Unstage")
}

func TestViewCommitEditor(t *testing.T) {
	m := newTestModel(t)
	m.focus = focusCommitTitle

	view := m.View()
	assert.Contains(t, view, "Commit")
	assert.Contains(t, view, "Summary")
	assert.Contains(t, view, "Description")

	m.amend = true
	assert.Contains(t, m.View(), "Amend commit")
}
