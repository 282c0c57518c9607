// Package git wraps the git commands and helpers used by lazystage.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/chmouel/lazystage/internal/log"
	"github.com/chmouel/lazystage/internal/models"
)

// LookupPath is used to find executables in PATH. It's exposed as a package
// variable so tests can mock it and avoid depending on system binaries.
var LookupPath = exec.LookPath

// NotifyFn receives ongoing notifications.
type NotifyFn func(message string, severity string)

// NotifyOnceFn reports deduplicated notification messages.
type NotifyOnceFn func(key string, message string, severity string)

// Service orchestrates git commands for the UI. Every status-mutating
// operation (stage, unstage, checkout, commit) invalidates any FileStatusSet
// previously returned by LoadStatus; callers reload before the next
// reconciliation pass.
type Service struct {
	notify       NotifyFn
	notifyOnce   NotifyOnceFn
	semaphore    chan struct{}
	useGitPager  bool
	gitPager     string
	gitPagerArgs []string
}

// NewService constructs a Service and sets up concurrency limits.
func NewService(notify NotifyFn, notifyOnce NotifyOnceFn) *Service {
	limit := runtime.NumCPU() * 2
	if limit < 4 {
		limit = 4
	}
	if limit > 32 {
		limit = 32
	}

	// Counting semaphore: the channel starts full, acquire takes a token and
	// release returns it, bounding concurrent git invocations.
	semaphore := make(chan struct{}, limit)
	for i := 0; i < limit; i++ {
		semaphore <- struct{}{}
	}

	return &Service{
		notify:     notify,
		notifyOnce: notifyOnce,
		semaphore:  semaphore,
	}
}

// SetGitPager sets the diff formatter command; an empty string disables it.
func (s *Service) SetGitPager(pager string) {
	s.gitPager = strings.TrimSpace(pager)
	s.useGitPager = s.isGitPagerAvailable()
}

// SetGitPagerArgs sets additional arguments used when formatting diffs.
func (s *Service) SetGitPagerArgs(args []string) {
	if len(args) == 0 {
		s.gitPagerArgs = nil
		return
	}
	s.gitPagerArgs = append([]string{}, args...)
}

// UseGitPager reports whether diff pager integration is enabled.
func (s *Service) UseGitPager() bool {
	return s.useGitPager
}

func (s *Service) isGitPagerAvailable() bool {
	if s.gitPager == "" {
		return false
	}
	_, err := LookupPath(s.gitPager)
	return err == nil
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func (s *Service) acquireSemaphore() {
	<-s.semaphore
}

func (s *Service) releaseSemaphore() {
	s.semaphore <- struct{}{}
}

func prepareAllowedCommand(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command provided")
	}
	if args[0] != "git" {
		return nil, fmt.Errorf("unsupported command %q", args[0])
	}
	// #nosec G204 -- arguments for git come from internal logic and are not shell interpolated
	return exec.CommandContext(ctx, "git", args[1:]...), nil
}

// RunGit executes a git command and optionally trims its output.
func (s *Service) RunGit(ctx context.Context, args []string, cwd string, okReturncodes []int, strip, silent bool) string {
	command := strings.Join(args, " ")
	if command == "" {
		command = "<empty>"
	}
	s.debugf("run: %s (cwd=%s)", command, cwd)

	cmd, err := prepareAllowedCommand(ctx, args)
	if err != nil {
		key := fmt.Sprintf("unsupported_cmd:%s", command)
		s.notifyOnce(key, fmt.Sprintf("Unsupported command: %s", command), "error")
		s.debugf("error: %s (unsupported command)", command)
		return ""
	}
	if cwd != "" {
		cmd.Dir = cwd
	}

	s.acquireSemaphore()
	output, err := cmd.Output()
	s.releaseSemaphore()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			returnCode := exitError.ExitCode()
			if !slices.Contains(okReturncodes, returnCode) {
				if silent {
					s.debugf("error: %s (exit %d, silenced)", command, returnCode)
					return ""
				}
				stderr := strings.TrimSpace(string(exitError.Stderr))
				suffix := fmt.Sprintf(" (exit %d)", returnCode)
				if stderr != "" {
					suffix = ": " + stderr
				}
				key := fmt.Sprintf("git_fail:%s:%s", cwd, command)
				s.notifyOnce(key, fmt.Sprintf("Command failed: %s%s", command, suffix), "error")
				s.debugf("error: %s%s", command, suffix)
				return ""
			}
		} else {
			if !silent {
				key := "cmd_missing:git"
				s.notifyOnce(key, "Command not found: git", "error")
				s.debugf("error: command not found: git")
			}
			return ""
		}
	}

	out := string(output)
	if strip {
		out = strings.TrimSpace(out)
	}
	s.debugf("ok: %s", command)
	return out
}

// RunCommandChecked runs a git command and reports failures via notify.
func (s *Service) RunCommandChecked(ctx context.Context, args []string, cwd, errorPrefix string) bool {
	command := strings.Join(args, " ")
	if command == "" {
		command = "<empty>"
	}
	s.debugf("run: %s (cwd=%s)", command, cwd)

	cmd, err := prepareAllowedCommand(ctx, args)
	if err != nil {
		message := fmt.Sprintf("%s: %v", errorPrefix, err)
		if errorPrefix == "" {
			message = fmt.Sprintf("command error: %v", err)
		}
		s.notify(message, "error")
		s.debugf("error: %s", message)
		return false
	}
	if cwd != "" {
		cmd.Dir = cwd
	}

	s.acquireSemaphore()
	output, err := cmd.CombinedOutput()
	s.releaseSemaphore()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			s.notify(fmt.Sprintf("%s: %s", errorPrefix, detail), "error")
			s.debugf("error: %s: %s", errorPrefix, detail)
		} else {
			s.notify(fmt.Sprintf("%s: %v", errorPrefix, err), "error")
			s.debugf("error: %s: %v", errorPrefix, err)
		}
		return false
	}

	s.debugf("ok: %s", command)
	return true
}

// ApplyGitPager pipes diff output through the configured pager when available.
func (s *Service) ApplyGitPager(ctx context.Context, diff string) string {
	if !s.useGitPager || diff == "" {
		return diff
	}

	args := []string{}
	if s.gitPager == "delta" {
		args = append(args, "--no-gitconfig", "--paging=never")
	}
	if len(s.gitPagerArgs) > 0 {
		args = append(args, s.gitPagerArgs...)
	}
	// #nosec G204 -- git_pager comes from local config and is controlled by the user
	cmd := exec.CommandContext(ctx, s.gitPager, args...)
	cmd.Stdin = strings.NewReader(diff)
	output, err := cmd.Output()
	if err != nil {
		return diff
	}
	return string(output)
}

// GetCurrentBranch returns the branch checked out at path, or an error when
// HEAD is detached or path is not a repository.
func (s *Service) GetCurrentBranch(ctx context.Context, path string) (string, error) {
	branch := s.RunGit(ctx, []string{"git", "rev-parse", "--abbrev-ref", "HEAD"}, path, []int{0}, true, false)
	branch = strings.TrimSpace(branch)
	if branch == "" || branch == "HEAD" {
		return "", fmt.Errorf("not currently on a branch (detached HEAD)")
	}
	return branch, nil
}

// GetAheadBehind returns the commit counts relative to the upstream branch.
// Both are zero when no upstream is configured.
func (s *Service) GetAheadBehind(ctx context.Context, path string) (ahead, behind int) {
	out := s.RunGit(ctx, []string{
		"git", "rev-list", "--left-right", "--count", "@{upstream}...HEAD",
	}, path, []int{0}, true, true)
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0
	}
	behind, _ = strconv.Atoi(fields[0])
	ahead, _ = strconv.Atoi(fields[1])
	return ahead, behind
}

// IsRepository reports whether path is inside a git working tree.
func (s *Service) IsRepository(ctx context.Context, path string) bool {
	out := s.RunGit(ctx, []string{"git", "rev-parse", "--is-inside-work-tree"}, path, []int{0}, true, true)
	return out == "true"
}

// RepoRoot returns the top-level directory of the working tree at path.
func (s *Service) RepoRoot(ctx context.Context, path string) string {
	return s.RunGit(ctx, []string{"git", "rev-parse", "--show-toplevel"}, path, []int{0}, true, true)
}

// GitCommonDir returns the git common directory for the repository at path.
func (s *Service) GitCommonDir(ctx context.Context, path string) string {
	return s.RunGit(ctx, []string{"git", "rev-parse", "--git-common-dir"}, path, []int{0}, true, true)
}

// HeadSubject returns the subject line of the HEAD commit, used to prefill
// the editor when amending.
func (s *Service) HeadSubject(ctx context.Context, path string) string {
	return s.RunGit(ctx, []string{"git", "log", "-1", "--pretty=%s"}, path, []int{0}, true, true)
}

// hasHead reports whether the repository has any commit yet.
func (s *Service) hasHead(ctx context.Context, path string) bool {
	out := s.RunGit(ctx, []string{"git", "rev-parse", "--verify", "HEAD"}, path, []int{0}, true, true)
	return out != ""
}

// models re-exported for callers that only import this package.
type (
	// FileStatusSet is the per-file status of one revision.
	FileStatusSet = models.FileStatusSet
)
