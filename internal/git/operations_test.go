package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for git operations:
// - CurrentRevision reads branch and commit of a real repository
// - Detached HEAD reports "detached-{hash}"
// - Directories outside a repository report an empty revision
// - CurrentRevision works with the mock implementation

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	gitCmd := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test User", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=Test User", "GIT_COMMITTER_EMAIL=test@example.com")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	gitCmd("init", "-b", "main")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Rule.kt"), []byte("class Rule"), 0644))
	gitCmd("add", "Rule.kt")
	gitCmd("commit", "-m", "Initial commit")
	return dir
}

func TestCurrentRevision(t *testing.T) {
	t.Parallel()

	dir := initRepo(t)
	rev := CurrentRevision(NewOperations(), dir)
	assert.Equal(t, "main", rev.Branch)
	assert.NotEmpty(t, rev.Commit)
}

func TestCurrentBranch_DetachedHead(t *testing.T) {
	t.Parallel()

	dir := initRepo(t)
	cmd := exec.Command("git", "checkout", "--detach")
	cmd.Dir = dir
	require.NoError(t, cmd.Run())

	ops := NewOperations()
	assert.Equal(t, "detached-"+ops.HeadCommit(dir), ops.CurrentBranch(dir))
}

func TestCurrentRevision_NotARepository(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	// The temp dir may sit inside a repository on some machines.
	dir := t.TempDir()
	if exec.Command("git", "-C", dir, "rev-parse").Run() == nil {
		t.Skip("temp dir is inside a git repository")
	}

	assert.Equal(t, Revision{}, CurrentRevision(NewOperations(), dir))
}

func TestCurrentRevision_Mock(t *testing.T) {
	t.Parallel()

	rev := CurrentRevision(NewMockOperations("feature", "abc1234"), "/nowhere")
	assert.Equal(t, Revision{Branch: "feature", Commit: "abc1234"}, rev)
}
