package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/chmouel/lazystage/internal/models"
)

// LoadStatus builds a fresh FileStatusSet for the working tree at path
// against HEAD. The set combines four plumbing views:
//
//   - git diff-index --name-status -C HEAD: tracked changes, one raw status
//     token per path (renames and copies carry the similarity score);
//   - git diff-index --cached --name-only HEAD: paths present in the index,
//     or-ed in as StatusInIndex;
//   - git ls-files -u: unmerged paths, marked StatusConflict;
//   - git ls-files --others --exclude-standard: untracked paths.
//
// The returned set is a snapshot; any stage/unstage/checkout/commit makes it
// stale and callers must load again before the next reconciliation pass.
func (s *Service) LoadStatus(ctx context.Context, path string) *FileStatusSet {
	set := models.NewFileStatusSet()

	if s.hasHead(ctx, path) {
		raw := s.RunGit(ctx, []string{
			"git", "diff-index", "--name-status", "-C", "HEAD",
		}, path, []int{0}, false, false)
		for _, line := range strings.Split(raw, "\n") {
			token, file, descriptor, ok := splitStatusLine(line)
			if !ok {
				continue
			}
			set.Append(file, token)
			if descriptor != "" {
				set.SetExtendedStatus(set.Count()-1, descriptor)
			}
		}

		cached := s.RunGit(ctx, []string{
			"git", "diff-index", "--cached", "--name-only", "HEAD",
		}, path, []int{0}, false, false)
		for _, file := range strings.Split(cached, "\n") {
			file = strings.TrimSpace(file)
			if file == "" {
				continue
			}
			if idx := set.IndexOf(file); idx >= 0 {
				set.AppendStatus(idx, models.StatusInIndex)
			} else {
				// Staged with no remaining worktree delta (e.g. added then
				// fully staged): the entry only exists in the cached view.
				set.Append(file, "A")
				set.AppendStatus(set.Count()-1, models.StatusInIndex)
			}
		}
	} else {
		// Unborn branch: everything staged so far is a new in-index file.
		cached := s.RunGit(ctx, []string{"git", "ls-files", "--cached"}, path, []int{0}, false, false)
		for _, file := range strings.Split(cached, "\n") {
			file = strings.TrimSpace(file)
			if file == "" {
				continue
			}
			set.Append(file, "A")
			set.AppendStatus(set.Count()-1, models.StatusInIndex)
		}
	}

	unmerged := s.RunGit(ctx, []string{"git", "ls-files", "-u"}, path, []int{0}, false, false)
	for _, line := range strings.Split(unmerged, "\n") {
		// Format: <mode> <sha> <stage>\t<path>
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			continue
		}
		file := strings.TrimSpace(line[tab+1:])
		if file == "" {
			continue
		}
		if idx := set.IndexOf(file); idx >= 0 {
			set.AppendStatus(idx, models.StatusConflict)
		} else {
			set.Append(file, "U")
		}
	}

	untracked := s.RunGit(ctx, []string{
		"git", "ls-files", "--others", "--exclude-standard",
	}, path, []int{0}, false, false)
	for _, file := range strings.Split(untracked, "\n") {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}
		set.Append(file, "?")
	}

	s.debugf("status: %s (%s)", set, path)
	return set
}

// GetCommitFiles returns the per-file status of a historical commit, parsed
// from git diff-tree with rename/copy detection enabled.
func (s *Service) GetCommitFiles(ctx context.Context, commitSHA, path string) *FileStatusSet {
	raw := s.RunGit(ctx, []string{
		"git", "diff-tree", "--name-status", "-r", "-C", "--no-commit-id", commitSHA,
	}, path, []int{0}, false, false)

	set := models.NewFileStatusSet()
	for _, line := range strings.Split(raw, "\n") {
		token, file, descriptor, ok := splitStatusLine(line)
		if !ok {
			continue
		}
		set.Append(file, token)
		if descriptor != "" {
			set.SetExtendedStatus(set.Count()-1, descriptor)
		}
	}
	return set
}

// splitStatusLine parses one "token\tpath" line of --name-status output.
// Rename/copy rows ("R100\told\tnew") report the destination path and keep
// the whole row as the extended descriptor.
func splitStatusLine(line string) (token, file, descriptor string, ok bool) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return "", "", "", false
	}
	parts := strings.Split(line, "\t")
	if len(parts) < 2 {
		return "", "", "", false
	}

	token = parts[0]
	file = parts[1]
	if len(token) > 1 && (token[0] == 'R' || token[0] == 'C') && len(parts) >= 3 {
		file = parts[2]
		descriptor = line
	}
	if strings.TrimSpace(file) == "" {
		return "", "", "", false
	}
	return token, file, descriptor, true
}

// StageFile adds a single file to the index.
func (s *Service) StageFile(ctx context.Context, path, file string) bool {
	return s.RunCommandChecked(ctx, []string{"git", "add", "--", file}, path, fmt.Sprintf("stage %s", file))
}

// StageAll adds every pending change, untracked files included.
func (s *Service) StageAll(ctx context.Context, path string) bool {
	return s.RunCommandChecked(ctx, []string{"git", "add", "-A"}, path, "stage all")
}

// UnstageFile removes a file from the index, keeping the worktree content.
func (s *Service) UnstageFile(ctx context.Context, path, file string) bool {
	if s.hasHead(ctx, path) {
		return s.RunCommandChecked(ctx, []string{"git", "reset", "-q", "HEAD", "--", file}, path, fmt.Sprintf("unstage %s", file))
	}
	return s.RunCommandChecked(ctx, []string{"git", "rm", "--cached", "-q", "--", file}, path, fmt.Sprintf("unstage %s", file))
}

// CheckoutFile discards the worktree changes of a tracked file.
func (s *Service) CheckoutFile(ctx context.Context, path, file string) bool {
	return s.RunCommandChecked(ctx, []string{"git", "checkout", "--", file}, path, fmt.Sprintf("revert %s", file))
}

// Diff returns the diff of one file, staged or unstaged side, formatted
// through the configured pager when available.
func (s *Service) Diff(ctx context.Context, path, file string, staged bool) string {
	args := []string{"git", "diff"}
	if staged {
		args = append(args, "--cached")
	}
	args = append(args, "--", file)
	diff := s.RunGit(ctx, args, path, []int{0}, false, false)
	return s.ApplyGitPager(ctx, diff)
}

// DiffUntracked renders the content of an untracked file as an add-diff.
func (s *Service) DiffUntracked(ctx context.Context, path, file string) string {
	diff := s.RunGit(ctx, []string{
		"git", "diff", "--no-index", "--", "/dev/null", file,
	}, path, []int{0, 1}, false, true)
	return s.ApplyGitPager(ctx, diff)
}

// Commit records the staged changes with the given message and returns the
// outcome as a value; the attempted message travels with the result so a
// failed commit can be restored into the editor.
func (s *Service) Commit(ctx context.Context, path, message string, amend bool) models.CommitResult {
	result := models.CommitResult{Msg: message}

	args := []string{"git", "commit", "-m", message}
	if amend {
		args = append(args, "--amend")
	}
	if !s.RunCommandChecked(ctx, args, path, "commit") {
		result.Err = fmt.Errorf("commit failed")
		return result
	}

	result.Success = true
	result.Sha = s.RunGit(ctx, []string{"git", "rev-parse", "--short", "HEAD"}, path, []int{0}, true, true)
	return result
}

// CleanCommitMessage normalizes the title and description typed in the UI
// into the final commit message: comment lines are dropped, trailing
// whitespace is stripped per line, and the result is "subject\n\nbody\n".
// An empty subject after cleanup is an error.
func CleanCommitMessage(title, description string) (string, error) {
	subject := strings.TrimSpace(title)
	if subject == "" {
		return "", fmt.Errorf("commit title is empty")
	}

	var body []string
	for _, line := range strings.Split(description, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		body = append(body, strings.TrimRight(line, " \t\r\f\v"))
	}
	bodyText := strings.TrimSpace(strings.Join(body, "\n"))

	if bodyText == "" {
		return subject + "\n", nil
	}
	return subject + "\n\n" + bodyText + "\n", nil
}
