// Package provision makes sure a build has somewhere to land: a local
// repository tree wired to a remote repository on the forge.
package provision

import (
	"context"
	"fmt"

	"pageforge/internal/forge"
	"pageforge/internal/foundation/errors"
	"pageforge/internal/git"
	"pageforge/internal/workspace"
)

// RemoteName is the remote every generated repository pushes to.
const RemoteName = "origin"

// Provisioner prepares local trees and their forge-side counterparts.
type Provisioner struct {
	forge forge.Client
	git   git.VCS
	ws    *workspace.Manager
}

// NewProvisioner wires a provisioner from its collaborators.
func NewProvisioner(fc forge.Client, gs git.VCS, ws *workspace.Manager) *Provisioner {
	return &Provisioner{forge: fc, git: gs, ws: ws}
}

// Ensure guarantees that the named repository exists locally and on the
// forge, with the origin remote pointing at the authenticated push URL.
// It returns the local tree path. Ensure is idempotent; an existing tree
// or remote repository is reused.
func (p *Provisioner) Ensure(ctx context.Context, repoName string) (string, error) {
	dir, err := p.ws.EnsureTree(repoName)
	if err != nil {
		return "", provisionFailure(repoName, "prepare workspace tree", err)
	}
	if err := p.git.Init(dir); err != nil {
		return "", provisionFailure(repoName, "initialize repository", err)
	}
	if err := p.git.SetIdentity(dir); err != nil {
		return "", provisionFailure(repoName, "configure commit identity", err)
	}
	if err := p.forge.EnsureRepo(ctx, repoName); err != nil {
		return "", provisionFailure(repoName, "ensure remote repository", err)
	}
	if err := p.git.SetRemote(dir, RemoteName, p.forge.RemoteURL(repoName)); err != nil {
		return "", provisionFailure(repoName, "configure remote", err)
	}
	return dir, nil
}

func provisionFailure(repoName, step string, err error) error {
	return errors.WrapError(err, errors.CategoryProvision, fmt.Sprintf("%s for %s", step, repoName)).
		WithSeverity(errors.SeverityFatal).
		WithContext("repository", repoName).
		Build()
}
