package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"pageforge/internal/logfields"
)

// Manager owns the workspace root holding one working tree per repository.
type Manager struct {
	root  string
	locks *repoLocks
}

// NewManager creates a manager rooted at the given directory.
func NewManager(root string) *Manager {
	if root == "" {
		root = filepath.Join(os.TempDir(), "pageforge")
	}
	return &Manager{
		root:  root,
		locks: newRepoLocks(),
	}
}

// Root returns the workspace root path.
func (m *Manager) Root() string {
	return m.root
}

// EnsureRoot creates the workspace root if it does not exist.
func (m *Manager) EnsureRoot() error {
	if err := os.MkdirAll(m.root, 0o750); err != nil {
		return fmt.Errorf("failed to create workspace root: %w", err)
	}
	slog.Debug("Using persistent workspace", logfields.Path(m.root))
	return nil
}

// TreePath returns the working tree path for a repository without creating it.
func (m *Manager) TreePath(repoName string) string {
	return filepath.Join(m.root, repoName)
}

// EnsureTree creates the working tree directory for a repository on demand.
// Existing trees are reused as-is; the service never deletes them.
func (m *Manager) EnsureTree(repoName string) (string, error) {
	if repoName == "" {
		return "", fmt.Errorf("repository name is empty")
	}
	tree := m.TreePath(repoName)
	if err := os.MkdirAll(tree, 0o750); err != nil {
		return "", fmt.Errorf("failed to create working tree for %s: %w", repoName, err)
	}
	return tree, nil
}
