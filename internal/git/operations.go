// Package git reads the revision a run was generated from.
package git

import (
	"os/exec"
	"strings"
)

// Operations defines the interface for git operations.
// This allows mocking git commands in tests.
type Operations interface {
	// CurrentBranch returns the current branch name.
	// For detached HEAD, returns "detached-{short-hash}".
	// Returns "" outside a git repository.
	CurrentBranch(projectPath string) string

	// HeadCommit returns the short hash of HEAD, or "" outside a git repository.
	HeadCommit(projectPath string) string
}

// Revision identifies the source state of a run.
type Revision struct {
	Branch string
	Commit string
}

// gitOps is the real implementation using exec.Command.
type gitOps struct{}

// NewOperations returns the default git operations implementation.
func NewOperations() Operations {
	return &gitOps{}
}

func (g *gitOps) CurrentBranch(projectPath string) string {
	branch := run(projectPath, "branch", "--show-current")
	if branch != "" {
		return branch
	}
	// Might be detached HEAD
	if commit := g.HeadCommit(projectPath); commit != "" {
		return "detached-" + commit
	}
	return ""
}

func (g *gitOps) HeadCommit(projectPath string) string {
	return run(projectPath, "rev-parse", "--short", "HEAD")
}

func run(dir string, args ...string) string {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// CurrentRevision reads branch and commit of the repository at projectPath.
func CurrentRevision(ops Operations, projectPath string) Revision {
	return Revision{
		Branch: ops.CurrentBranch(projectPath),
		Commit: ops.HeadCommit(projectPath),
	}
}
