// Package forge talks to the hosting platform that owns the remote
// repository and serves the published site. GitHub is the only forge
// implemented; the Client interface keeps the pipeline independent of it.
package forge

import "context"

// Client provisions remote repositories and derives the URLs the build
// pipeline reports back to callers.
type Client interface {
	// EnsureRepo creates the named repository when it does not exist yet.
	// An already existing repository is success.
	EnsureRepo(ctx context.Context, name string) error

	// RemoteURL returns the push URL for the repository with credentials
	// embedded. It must never be logged unredacted.
	RemoteURL(name string) string

	// RepoURL returns the public browser URL of the repository.
	RepoURL(name string) string

	// PagesURL returns the URL the published site will be served from.
	PagesURL(name string) string
}
