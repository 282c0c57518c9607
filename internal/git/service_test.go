package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/chmouel/lazystage/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	notify := func(_ string, _ string) {}
	notifyOnce := func(_ string, _ string, _ string) {}
	return NewService(notify, notifyOnce)
}

// initRepo creates a throwaway repository with one committed file.
func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")
	run("config", "commit.gpgsign", "false")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tracked.txt"), []byte("one\n"), 0o600))
	run("add", "tracked.txt")
	run("commit", "-q", "-m", "initial")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestNewService(t *testing.T) {
	service := newTestService()

	assert.NotNil(t, service)
	assert.NotNil(t, service.semaphore)

	expectedSlots := runtime.NumCPU() * 2
	if expectedSlots < 4 {
		expectedSlots = 4
	}
	if expectedSlots > 32 {
		expectedSlots = 32
	}

	count := 0
	for i := 0; i < expectedSlots; i++ {
		select {
		case <-service.semaphore:
			count++
		default:
		}
	}
	assert.Equal(t, expectedSlots, count)
}

func TestSetGitPager(t *testing.T) {
	service := newTestService()

	t.Run("empty value disables pager", func(t *testing.T) {
		service.SetGitPager("")
		assert.False(t, service.UseGitPager())
		assert.Empty(t, service.gitPager)
	})

	t.Run("whitespace trimmed", func(t *testing.T) {
		service.SetGitPager("  delta  ")
		assert.Equal(t, "delta", service.gitPager)
	})
}

func TestSetGitPagerArgs(t *testing.T) {
	service := newTestService()

	args := []string{"--side-by-side"}
	service.SetGitPagerArgs(args)
	args[0] = "--changed"
	assert.Equal(t, []string{"--side-by-side"}, service.gitPagerArgs)

	service.SetGitPagerArgs(nil)
	assert.Nil(t, service.gitPagerArgs)
}

func TestRunGitUnsupportedCommand(t *testing.T) {
	var notified string
	service := NewService(
		func(_ string, _ string) {},
		func(_ string, message string, _ string) { notified = message },
	)

	out := service.RunGit(context.Background(), []string{"rm", "-rf", "/"}, "", []int{0}, true, false)
	assert.Empty(t, out)
	assert.Contains(t, notified, "Unsupported command")
}

func TestSplitStatusLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		token      string
		file       string
		descriptor string
		ok         bool
	}{
		{"modified", "M\tmain.go", "M", "main.go", "", true},
		{"added", "A\tnew.go", "A", "new.go", "", true},
		{"rename", "R100\told.go\tnew.go", "R100", "new.go", "R100\told.go\tnew.go", true},
		{"copy", "C75\tsrc.go\tdst.go", "C75", "dst.go", "C75\tsrc.go\tdst.go", true},
		{"empty", "", "", "", "", false},
		{"no tab", "garbage", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, file, descriptor, ok := splitStatusLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.token, token)
			assert.Equal(t, tt.file, file)
			assert.Equal(t, tt.descriptor, descriptor)
		})
	}
}

func TestLoadStatus(t *testing.T) {
	dir := initRepo(t)
	service := newTestService()
	ctx := context.Background()

	t.Run("clean tree is empty", func(t *testing.T) {
		set := service.LoadStatus(ctx, dir)
		assert.Equal(t, 0, set.Count())
		assert.True(t, set.OnlyModified())
	})

	t.Run("modified and untracked", func(t *testing.T) {
		writeFile(t, dir, "tracked.txt", "changed\n")
		writeFile(t, dir, "fresh.txt", "hi\n")

		set := service.LoadStatus(ctx, dir)
		require.Equal(t, 2, set.Count())

		idx := set.IndexOf("tracked.txt")
		require.GreaterOrEqual(t, idx, 0)
		assert.True(t, set.StatusCmp(idx, models.StatusModified))
		assert.False(t, set.StatusCmp(idx, models.StatusInIndex))
		assert.Equal(t, models.BucketUnstaged, set.Status(idx).Bucket())

		fresh := set.IndexOf("fresh.txt")
		require.GreaterOrEqual(t, fresh, 0)
		assert.True(t, set.StatusCmp(fresh, models.StatusUnknown))
		assert.Equal(t, models.BucketUntracked, set.Status(fresh).Bucket())
	})

	t.Run("staged file lands in staged bucket", func(t *testing.T) {
		require.True(t, service.StageFile(ctx, dir, "tracked.txt"))
		require.True(t, service.StageFile(ctx, dir, "fresh.txt"))

		set := service.LoadStatus(ctx, dir)
		idx := set.IndexOf("tracked.txt")
		require.GreaterOrEqual(t, idx, 0)
		assert.True(t, set.StatusCmp(idx, models.StatusInIndex))
		assert.Equal(t, models.BucketStaged, set.Status(idx).Bucket())

		fresh := set.IndexOf("fresh.txt")
		require.GreaterOrEqual(t, fresh, 0)
		assert.Equal(t, models.BucketStaged, set.Status(fresh).Bucket())
	})

	t.Run("unstage returns file to its bucket", func(t *testing.T) {
		require.True(t, service.UnstageFile(ctx, dir, "fresh.txt"))

		set := service.LoadStatus(ctx, dir)
		fresh := set.IndexOf("fresh.txt")
		require.GreaterOrEqual(t, fresh, 0)
		assert.Equal(t, models.BucketUntracked, set.Status(fresh).Bucket())
	})

	t.Run("checkout discards worktree change", func(t *testing.T) {
		require.True(t, service.UnstageFile(ctx, dir, "tracked.txt"))
		require.True(t, service.CheckoutFile(ctx, dir, "tracked.txt"))

		set := service.LoadStatus(ctx, dir)
		assert.Equal(t, -1, set.IndexOf("tracked.txt"))
	})
}

func TestCommit(t *testing.T) {
	dir := initRepo(t)
	service := newTestService()
	ctx := context.Background()

	writeFile(t, dir, "tracked.txt", "edit\n")
	require.True(t, service.StageFile(ctx, dir, "tracked.txt"))

	result := service.Commit(ctx, dir, "edit tracked", false)
	require.True(t, result.Success)
	assert.NoError(t, result.Err)
	assert.NotEmpty(t, result.Sha)
	assert.Equal(t, "edit tracked", result.Msg)

	set := service.LoadStatus(ctx, dir)
	assert.Equal(t, 0, set.Count())

	t.Run("amend keeps a single commit", func(t *testing.T) {
		writeFile(t, dir, "tracked.txt", "edit again\n")
		require.True(t, service.StageFile(ctx, dir, "tracked.txt"))
		amended := service.Commit(ctx, dir, "edit tracked, amended", true)
		require.True(t, amended.Success)
		assert.NotEqual(t, result.Sha, amended.Sha)
		assert.Equal(t, "edit tracked, amended", service.HeadSubject(ctx, dir))
	})

	t.Run("nothing staged fails", func(t *testing.T) {
		failed := service.Commit(ctx, dir, "empty", false)
		assert.False(t, failed.Success)
		assert.Error(t, failed.Err)
		assert.Equal(t, "empty", failed.Msg)
	})
}

func TestGetCommitFiles(t *testing.T) {
	dir := initRepo(t)
	service := newTestService()
	ctx := context.Background()

	writeFile(t, dir, "second.txt", "two\n")
	require.True(t, service.StageAll(ctx, dir))
	result := service.Commit(ctx, dir, "add second", false)
	require.True(t, result.Success)

	sha := service.RunGit(ctx, []string{"git", "rev-parse", "HEAD"}, dir, []int{0}, true, false)
	set := service.GetCommitFiles(ctx, sha, dir)
	require.Equal(t, 1, set.Count())
	assert.Equal(t, "second.txt", set.GetFile(0))
	assert.True(t, set.StatusCmp(0, models.StatusNew))
}

func TestCleanCommitMessage(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        string
		wantErr     bool
	}{
		{"title only", "fix parser", "", "fix parser\n", false},
		{"title and body", "fix parser", "details here", "fix parser\n\ndetails here\n", false},
		{"comments stripped", "fix parser", "# a comment\nreal text\n  # indented comment", "fix parser\n\nreal text\n", false},
		{"trailing whitespace stripped", "fix parser", "line one  \t\nline two", "fix parser\n\nline one\nline two\n", false},
		{"empty title", "   ", "body", "", true},
		{"body of only comments", "fix parser", "# one\n# two", "fix parser\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanCommitMessage(tt.title, tt.description)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetCurrentBranch(t *testing.T) {
	dir := initRepo(t)
	service := newTestService()

	branch, err := service.GetCurrentBranch(context.Background(), dir)
	require.NoError(t, err)
	assert.NotEmpty(t, branch)
}

func TestIsRepository(t *testing.T) {
	dir := initRepo(t)
	service := newTestService()
	ctx := context.Background()

	assert.True(t, service.IsRepository(ctx, dir))
	assert.False(t, service.IsRepository(ctx, t.TempDir()))
}
