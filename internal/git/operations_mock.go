package git

// MockOperations returns fixed values; it is used by tests that must not
// depend on a real repository.
type MockOperations struct {
	Branch string
	Commit string
}

// NewMockOperations creates a mock reporting the given branch and commit.
func NewMockOperations(branch, commit string) *MockOperations {
	return &MockOperations{Branch: branch, Commit: commit}
}

func (m *MockOperations) CurrentBranch(projectPath string) string { return m.Branch }

func (m *MockOperations) HeadCommit(projectPath string) string { return m.Commit }
