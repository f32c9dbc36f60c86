package git

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"pageforge/internal/logfields"
)

// DefaultBranch is the branch every generated site lives on. GitHub Pages
// deploy workflows trigger on pushes to this branch.
const DefaultBranch = "main"

// Identity is the author recorded on generated commits.
type Identity struct {
	Name  string
	Email string
}

// IdentityFor derives the commit identity for a forge account, using the
// provider's no-reply address convention.
func IdentityFor(owner string) Identity {
	return Identity{Name: owner, Email: owner + "@users.noreply.github.com"}
}

func (id Identity) signature() *object.Signature {
	return &object.Signature{Name: id.Name, Email: id.Email, When: time.Now()}
}

// VCS is the version-control surface the provisioner and publisher
// depend on. Service implements it on go-git.
type VCS interface {
	Init(path string) error
	SetIdentity(path string) error
	SetRemote(path, name, url string) error
	Stage(path string) error
	Commit(path, message string) (string, error)
	Push(ctx context.Context, path, remote string) error
	CurrentCommit(path string) (string, error)
}

// Service performs Git operations on local repository trees.
type Service struct {
	identity Identity
}

// NewService creates a Git service committing as the given identity.
func NewService(identity Identity) *Service { return &Service{identity: identity} }

// Init initializes a repository at path with main as the default branch.
// An already initialized repository is left untouched.
func (s *Service) Init(path string) error {
	slog.Debug("Initializing repository", logfields.Path(path))
	opts := &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(DefaultBranch)},
	}
	if _, err := git.PlainInitWithOptions(path, opts); err != nil {
		if err == git.ErrRepositoryAlreadyExists {
			slog.Debug("Repository already initialized", logfields.Path(path))
			return nil
		}
		return fmt.Errorf("init repository at %s: %w", path, err)
	}
	return nil
}

// SetIdentity persists the service identity into the repository config so
// tooling that inspects the tree sees the same author as the commits.
func (s *Service) SetIdentity(path string) error {
	repo, err := s.open(path)
	if err != nil {
		return err
	}
	cfg, err := repo.Config()
	if err != nil {
		return fmt.Errorf("read repository config at %s: %w", path, err)
	}
	cfg.User.Name = s.identity.Name
	cfg.User.Email = s.identity.Email
	if err := repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("write repository config at %s: %w", path, err)
	}
	return nil
}

// SetRemote points the named remote at url, replacing any previous
// configuration. The url may carry credentials; they never appear in logs
// or errors.
func (s *Service) SetRemote(path, name, url string) error {
	repo, err := s.open(path)
	if err != nil {
		return err
	}
	if err := repo.DeleteRemote(name); err != nil && err != git.ErrRemoteNotFound {
		return fmt.Errorf("replace remote %s: %w", name, err)
	}
	_, err = repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	if err != nil && err != git.ErrRemoteExists {
		return fmt.Errorf("configure remote %s: %w", name, err)
	}
	slog.Debug("Remote configured", logfields.Path(path), logfields.URL(RedactURL(url)))
	return nil
}

// Stage adds every change in the worktree to the index.
func (s *Service) Stage(path string) error {
	wt, err := s.worktree(path)
	if err != nil {
		return err
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage changes at %s: %w", path, err)
	}
	return nil
}

// Commit records the staged changes and returns the new commit hash.
// Empty commits are allowed so that an unchanged regeneration still
// produces a fresh deploy.
func (s *Service) Commit(path, message string) (string, error) {
	wt, err := s.worktree(path)
	if err != nil {
		return "", err
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author:            s.identity.signature(),
		AllowEmptyCommits: true,
	})
	if err != nil {
		return "", fmt.Errorf("commit at %s: %w", path, err)
	}
	slog.Info("Changes committed", logfields.Path(path), logfields.Commit(shortHash(hash.String())))
	return hash.String(), nil
}

// Push uploads the main branch to the named remote. A remote that is
// already up to date is not an error.
func (s *Service) Push(ctx context.Context, path, remote string) error {
	repo, err := s.open(path)
	if err != nil {
		return err
	}
	refSpec := config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", DefaultBranch, DefaultBranch))
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{refSpec},
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return classifyPushError(s.remoteURL(repo, remote), err)
	}
	slog.Info("Branch pushed", logfields.Path(path), slog.String("branch", DefaultBranch), slog.String("remote", remote))
	return nil
}

// CurrentCommit returns the full hash of the repository HEAD.
func (s *Service) CurrentCommit(path string) (string, error) {
	repo, err := s.open(path)
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD at %s: %w", path, err)
	}
	return ref.Hash().String(), nil
}

func (s *Service) open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}
	return repo, nil
}

func (s *Service) worktree(path string) (*git.Worktree, error) {
	repo, err := s.open(path)
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree at %s: %w", path, err)
	}
	return wt, nil
}

// remoteURL resolves the configured URL of a remote for error reporting,
// with credentials stripped. Falls back to the remote name when the remote
// cannot be read.
func (s *Service) remoteURL(repo *git.Repository, name string) string {
	rem, err := repo.Remote(name)
	if err != nil || len(rem.Config().URLs) == 0 {
		return name
	}
	return RedactURL(rem.Config().URLs[0])
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
