// Package testforge provides an in-memory forge client and local git
// fixtures for tests that exercise the build pipeline without GitHub.
package testforge

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/client"
	"github.com/go-git/go-git/v5/plumbing/transport/server"

	"pageforge/internal/forge"
	"pageforge/internal/foundation/errors"
)

// InstallFileTransport switches go-git onto the in-process file loader so
// pushes to local bare repositories work without a git binary. Call it
// once from TestMain of any package that pushes.
func InstallFileTransport() {
	client.InstallProtocol("file", server.NewClient(server.NewFilesystemLoader(osfs.New("/"))))
}

// Client stands in for GitHub: repository creation is recorded and the
// push URL points at a local bare repository.
type Client struct {
	mu      sync.Mutex
	remote  string
	failure error
	created []string
}

var _ forge.Client = (*Client)(nil)

// NewClient creates a forge fake pushing to the given bare repository
// path.
func NewClient(remote string) *Client {
	return &Client{remote: remote}
}

// FailWith makes every subsequent EnsureRepo call return err.
func (c *Client) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failure = err
}

// FailForbidden simulates the forge rejecting repository creation.
func (c *Client) FailForbidden() {
	c.FailWith(errors.ForgeError("create repository: 403 Forbidden").Build())
}

func (c *Client) EnsureRepo(_ context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure != nil {
		return c.failure
	}
	c.created = append(c.created, name)
	return nil
}

func (c *Client) RemoteURL(string) string { return c.remote }

func (c *Client) RepoURL(name string) string { return "https://github.com/octo/" + name }

func (c *Client) PagesURL(name string) string { return "https://octo.github.io/" + name + "/" }

// CreatedRepos returns the names passed to EnsureRepo, in call order.
func (c *Client) CreatedRepos() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.created...)
}

// NewBareRepo initializes a bare repository under a test temp dir and
// returns its path, suitable as the fake client's remote.
func NewBareRepo(t *testing.T) string {
	t.Helper()
	bare := filepath.Join(t.TempDir(), "site.git")
	if _, err := gogit.PlainInit(bare, true); err != nil {
		t.Fatalf("init bare: %v", err)
	}
	return bare
}

// BranchHead resolves the commit a branch points at in a bare repository.
func BranchHead(t *testing.T, bare, branch string) string {
	t.Helper()
	repo, err := gogit.PlainOpen(bare)
	if err != nil {
		t.Fatalf("open bare: %v", err)
	}
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		t.Fatalf("resolve %s: %v", branch, err)
	}
	return ref.Hash().String()
}
