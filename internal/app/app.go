// Package app implements the lazystage terminal UI: a work-in-progress view
// with untracked/unstaged/staged buckets, a commit editor, and auto refresh.
package app

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/app/services"
	"github.com/chmouel/lazystage/internal/config"
	"github.com/chmouel/lazystage/internal/git"
	"github.com/chmouel/lazystage/internal/log"
	"github.com/chmouel/lazystage/internal/models"
	"github.com/chmouel/lazystage/internal/theme"
)

type focusArea int

const (
	focusFiles focusArea = iota
	focusFilter
	focusCommitTitle
	focusCommitDesc
	focusDiff
)

type rowKind int

const (
	rowHeader rowKind = iota
	rowFile
)

// row is one visible line of the file list: a bucket header or a file entry.
type row struct {
	kind   rowKind
	bucket models.Bucket
	rec    *services.FileRecord
}

// Model is the bubbletea model for the lazystage UI.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	config     *config.AppConfig
	theme      *theme.Theme
	git        *git.Service
	reconciler *services.StatusReconciler
	watch      *services.RepoWatchService
	notices    *noticeInbox

	repoPath string
	branch   string
	ahead    int
	behind   int
	counts   models.StatusCounts

	// Display state: per-bucket ordered records, flattened into rows for
	// rendering. The records are shared with the reconciler, so update
	// actions are reflected without touching the slices.
	buckets      [3][]*services.FileRecord
	rows         []row
	cursor       int
	selectedPath string

	title  textinput.Model
	desc   textarea.Model
	diff   viewport.Model
	filter textinput.Model

	focus    focusArea
	diffPath string
	amend    bool

	confirmMessage string
	confirmAction  func() tea.Cmd

	windowWidth  int
	windowHeight int
	quitting     bool
}

// NewModel creates the application model for the repository in cfg.RepoPath
// (the current directory when empty).
func NewModel(cfg *config.AppConfig) *Model {
	ctx, cancel := context.WithCancel(context.Background())

	notices := newNoticeInbox()
	gitService := git.NewService(notices.add, notices.addOnce)
	gitService.SetGitPager(cfg.GitPager)
	gitService.SetGitPagerArgs(cfg.GitPagerArgs)

	repoPath := cfg.RepoPath
	if repoPath == "" {
		repoPath, _ = os.Getwd()
	}

	title := textinput.New()
	title.Placeholder = "Commit summary"
	title.CharLimit = cfg.CommitTitleLimit
	title.Width = 50

	desc := textarea.New()
	desc.Placeholder = "Description (lines starting with # are dropped)"
	desc.SetHeight(4)

	filter := textinput.New()
	filter.Placeholder = "Filter files"
	filter.Prompt = "/"

	m := &Model{
		ctx:        ctx,
		cancel:     cancel,
		config:     cfg,
		theme:      theme.GetTheme(cfg.Theme),
		git:        gitService,
		reconciler: services.NewStatusReconciler(),
		notices:    notices,
		repoPath:   repoPath,
		title:      title,
		desc:       desc,
		diff:       viewport.New(80, 20),
		filter:     filter,
	}
	m.watch = services.NewRepoWatchService(gitService, log.Printf)
	return m
}

// Init starts the first status load and the repository watcher.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadStatus(),
		m.loadBranchInfo(),
		m.startWatcher(),
	)
}

// Close releases background resources. Call after the program has finished.
func (m *Model) Close() {
	m.watch.Stop()
	m.cancel()
}

func (m *Model) loadStatus() tea.Cmd {
	return func() tea.Msg {
		return statusLoadedMsg{set: m.git.LoadStatus(m.ctx, m.repoPath)}
	}
}

func (m *Model) loadBranchInfo() tea.Cmd {
	return func() tea.Msg {
		branch, err := m.git.GetCurrentBranch(m.ctx, m.repoPath)
		if err != nil {
			branch = "(detached)"
		}
		ahead, behind := m.git.GetAheadBehind(m.ctx, m.repoPath)
		return branchInfoMsg{branch: branch, ahead: ahead, behind: behind}
	}
}

func (m *Model) startWatcher() tea.Cmd {
	return func() tea.Msg {
		started, err := m.watch.Start(m.ctx, m.config, m.repoPath)
		if err != nil {
			log.Printf("watcher start failed: %v", err)
		}
		return watchStartedMsg{started: started}
	}
}

func (m *Model) waitForWatchEvent() tea.Cmd {
	ch := m.watch.NextEvent()
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return watchEventMsg{}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWindowSize(msg.Width, msg.Height)
		return m, nil

	case statusLoadedMsg:
		actions := m.reconciler.Reconcile(msg.set)
		m.applyActions(actions)
		m.counts = models.CountBuckets(msg.set)
		return m, nil

	case branchInfoMsg:
		m.branch = msg.branch
		m.ahead = msg.ahead
		m.behind = msg.behind
		return m, nil

	case watchStartedMsg:
		if !msg.started {
			return m, nil
		}
		return m, m.waitForWatchEvent()

	case watchEventMsg:
		m.watch.ResetWaiting()
		cmds := []tea.Cmd{m.waitForWatchEvent()}
		if m.watch.ShouldRefresh(time.Now()) {
			cmds = append(cmds, m.loadStatus(), m.loadBranchInfo())
		}
		return m, tea.Batch(cmds...)

	case commitDoneMsg:
		return m.handleCommitDone(msg.result)

	case diffLoadedMsg:
		if strings.TrimSpace(msg.content) == "" {
			m.notices.add("No diff for "+msg.path, "info")
			return m, nil
		}
		m.diffPath = msg.path
		m.diff.SetContent(msg.content)
		m.diff.GotoTop()
		m.focus = focusDiff
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleCommitDone(result models.CommitResult) (tea.Model, tea.Cmd) {
	if result.Success {
		m.notices.add("Committed "+result.Sha, "info")
		m.title.SetValue("")
		m.desc.SetValue("")
		m.amend = false
		m.focus = focusFiles
		m.title.Blur()
		m.desc.Blur()
	} else {
		// The attempted message stays in the editor, nothing to restore.
		m.notices.add("Commit failed", "error")
	}
	return m, tea.Batch(m.loadStatus(), m.loadBranchInfo())
}

func (m *Model) setWindowSize(width, height int) {
	m.windowWidth = width
	m.windowHeight = height
	m.title.Width = max(20, width-20)
	m.desc.SetWidth(max(20, width-4))
	m.diff.Width = width
	m.diff.Height = max(5, height-4)
}

// applyActions folds a reconciliation pass into the per-bucket display
// lists. Only inserted, moved, and removed paths are touched; everything
// else keeps its position and attached state.
func (m *Model) applyActions(actions []services.Action) {
	for _, a := range actions {
		switch a.Kind {
		case services.ActionInsert:
			m.buckets[a.Bucket] = append(m.buckets[a.Bucket], m.reconciler.Record(a.Path))
		case services.ActionMove:
			m.removeFromBucket(a.FromBucket, a.Path)
			m.buckets[a.Bucket] = append(m.buckets[a.Bucket], m.reconciler.Record(a.Path))
		case services.ActionUpdate:
			// Shared record pointers: the annotation change is already
			// visible to the renderer.
		case services.ActionRemove:
			m.removeFromBucket(a.Bucket, a.Path)
		}
	}
	m.rebuildRows()
}

func (m *Model) removeFromBucket(bucket models.Bucket, path string) {
	list := m.buckets[bucket]
	for i, rec := range list {
		if rec.Path == path {
			m.buckets[bucket] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// rebuildRows flattens the buckets into display rows, applies the filter,
// and restores the cursor onto the previously selected path when it is
// still visible.
func (m *Model) rebuildRows() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.rows = m.rows[:0]
	for _, bucket := range []models.Bucket{models.BucketUntracked, models.BucketUnstaged, models.BucketStaged} {
		var visible []*services.FileRecord
		for _, rec := range m.buckets[bucket] {
			if query != "" && !strings.Contains(strings.ToLower(rec.Path), query) {
				continue
			}
			visible = append(visible, rec)
		}
		if len(visible) == 0 {
			continue
		}
		m.rows = append(m.rows, row{kind: rowHeader, bucket: bucket})
		for _, rec := range visible {
			m.rows = append(m.rows, row{kind: rowFile, bucket: bucket, rec: rec})
		}
	}

	if m.selectedPath != "" {
		for i, r := range m.rows {
			if r.kind == rowFile && r.rec.Path == m.selectedPath {
				m.cursor = i
				return
			}
		}
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if len(m.rows) == 0 {
		m.cursor = 0
		m.selectedPath = ""
		return
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	// Never rest on a header.
	if m.rows[m.cursor].kind == rowHeader {
		m.moveCursor(1)
	}
	m.syncSelectedPath()
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	i := m.cursor
	for {
		i += delta
		if i < 0 || i >= len(m.rows) {
			return
		}
		if m.rows[i].kind == rowFile {
			m.cursor = i
			m.syncSelectedPath()
			return
		}
	}
}

func (m *Model) syncSelectedPath() {
	if m.cursor >= 0 && m.cursor < len(m.rows) && m.rows[m.cursor].kind == rowFile {
		m.selectedPath = m.rows[m.cursor].rec.Path
	}
}

func (m *Model) selectedRecord() *services.FileRecord {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	r := m.rows[m.cursor]
	if r.kind != rowFile {
		return nil
	}
	return r.rec
}
