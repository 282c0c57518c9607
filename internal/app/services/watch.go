package services

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chmouel/lazystage/internal/config"
	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is the debounce window for watcher events. A save from an
// editor or a git command touches several paths in a burst; one refresh is
// enough.
const WatchDebounce = 400 * time.Millisecond

// GitDirResolver resolves git directories for the watched repository.
type GitDirResolver interface {
	RepoRoot(ctx context.Context, path string) string
	GitCommonDir(ctx context.Context, path string) string
}

// RepoWatchService watches the repository for changes that invalidate the
// current status snapshot: index/HEAD/refs updates under the git dir, and
// file edits in the worktree. Events are coalesced onto a single channel the
// UI drains to trigger a reload-and-reconcile pass.
type RepoWatchService struct {
	Started     bool
	Waiting     bool
	CommonDir   string
	Roots       []string
	Events      chan struct{}
	Done        chan struct{}
	Paths       map[string]struct{}
	Mu          sync.Mutex
	Watcher     *fsnotify.Watcher
	LastRefresh time.Time
	git         GitDirResolver
	logf        func(string, ...any)
}

// NewRepoWatchService creates a new RepoWatchService.
func NewRepoWatchService(git GitDirResolver, logf func(string, ...any)) *RepoWatchService {
	return &RepoWatchService{
		git:  git,
		logf: logf,
	}
}

// Start initialises the watcher and starts the background goroutine. Returns
// false without error when auto refresh is disabled or the git dir cannot be
// resolved.
func (w *RepoWatchService) Start(ctx context.Context, cfg *config.AppConfig, repoPath string) (bool, error) {
	if w.Started || cfg == nil || !cfg.AutoRefresh {
		return false, nil
	}
	commonDir := w.resolveCommonDir(ctx, repoPath)
	if commonDir == "" {
		w.debugf("auto refresh: unable to resolve git common dir")
		return false, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.Started = true
	w.Watcher = watcher
	w.CommonDir = commonDir
	w.Events = make(chan struct{}, 1)
	w.Done = make(chan struct{})
	w.Paths = make(map[string]struct{})
	w.Roots = []string{
		filepath.Join(commonDir, "refs"),
	}
	// The git dir itself covers index and HEAD writes; the worktree root
	// (non-recursive) covers top-level file edits without the cost of
	// watching the whole tree.
	w.addWatchDir(commonDir)
	if root := w.git.RepoRoot(ctx, repoPath); root != "" {
		w.addWatchDir(root)
	}
	for _, root := range w.Roots {
		w.addWatchTree(root)
	}

	go w.run()
	return true, nil
}

// Stop stops the watcher and closes channels.
func (w *RepoWatchService) Stop() {
	if !w.Started {
		return
	}
	close(w.Done)
	w.Started = false
	if w.Watcher != nil {
		_ = w.Watcher.Close()
	}
}

// NextEvent returns the event channel if waiting is not already active.
func (w *RepoWatchService) NextEvent() <-chan struct{} {
	if w.Events == nil || w.Waiting {
		return nil
	}
	w.Waiting = true
	return w.Events
}

// ResetWaiting clears the waiting flag after an event is processed.
func (w *RepoWatchService) ResetWaiting() {
	w.Waiting = false
}

// ShouldRefresh checks debounce timing for watcher events.
func (w *RepoWatchService) ShouldRefresh(now time.Time) bool {
	if !w.LastRefresh.IsZero() && now.Sub(w.LastRefresh) < WatchDebounce {
		return false
	}
	w.LastRefresh = now
	return true
}

// MaybeWatchNewDir registers newly created directories under watch roots.
func (w *RepoWatchService) MaybeWatchNewDir(path string) {
	if !w.IsUnderRoot(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.addWatchDir(path)
}

// Signal notifies listeners of watcher activity.
func (w *RepoWatchService) Signal() {
	select {
	case <-w.Done:
		return
	default:
	}
	select {
	case w.Events <- struct{}{}:
	default:
	}
}

// IsUnderRoot reports whether the path is under any watch root.
func (w *RepoWatchService) IsUnderRoot(path string) bool {
	if path == "" {
		return false
	}
	for _, root := range w.Roots {
		if root == "" {
			continue
		}
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *RepoWatchService) run() {
	for {
		select {
		case <-w.Done:
			return
		case event, ok := <-w.Watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// The index lock churns on every git command; wait for the real
			// index write instead.
			if strings.HasSuffix(event.Name, ".lock") {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.MaybeWatchNewDir(event.Name)
			}
			w.Signal()
		case err, ok := <-w.Watcher.Errors:
			if !ok {
				return
			}
			w.debugf("repo watcher error: %v", err)
		}
	}
}

func (w *RepoWatchService) addWatchDir(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.Mu.Lock()
	defer w.Mu.Unlock()

	if _, ok := w.Paths[path]; ok {
		return
	}
	if err := w.Watcher.Add(path); err != nil {
		w.debugf("repo watcher add failed for %s: %v", path, err)
		return
	}
	w.Paths[path] = struct{}{}
}

func (w *RepoWatchService) addWatchTree(root string) {
	if root == "" {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		w.addWatchDir(path)
		return nil
	})
}

func (w *RepoWatchService) resolveCommonDir(ctx context.Context, repoPath string) string {
	if w.git == nil {
		return ""
	}
	commonDir := strings.TrimSpace(w.git.GitCommonDir(ctx, repoPath))
	if commonDir == "" {
		return ""
	}
	if filepath.IsAbs(commonDir) {
		return commonDir
	}

	if root := strings.TrimSpace(w.git.RepoRoot(ctx, repoPath)); root != "" {
		return filepath.Join(root, commonDir)
	}
	if abs, err := filepath.Abs(commonDir); err == nil {
		return abs
	}
	return commonDir
}

func (w *RepoWatchService) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
