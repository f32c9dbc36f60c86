// Package task defines the wire-level build request and result types plus
// the derivations (repository name, validation) the pipeline relies on.
package task

import (
	"fmt"
	"net/url"
	"strings"
)

// Attachment references an external resource supplied with a request.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// BuildRequest is the inbound payload accepted by the task endpoint.
// Field names match the external contract exactly.
type BuildRequest struct {
	Email         string       `json:"email"`
	Secret        string       `json:"secret"`
	Task          string       `json:"task"`
	Round         int          `json:"round"`
	Nonce         string       `json:"nonce"`
	Brief         string       `json:"brief"`
	Checks        []string     `json:"checks,omitempty"`
	EvaluationURL string       `json:"evaluation_url"`
	Attachments   []Attachment `json:"attachments,omitempty"`
}

// Validate checks the request shape before any side effect happens. The
// secret is only checked for presence here; comparison against the
// configured value is the pipeline's auth stage.
func (r *BuildRequest) Validate() error {
	switch {
	case r.Email == "":
		return fmt.Errorf("email is required")
	case r.Secret == "":
		return fmt.Errorf("secret is required")
	case r.Task == "":
		return fmt.Errorf("task is required")
	case r.Nonce == "":
		return fmt.Errorf("nonce is required")
	case r.Round < 1:
		return fmt.Errorf("round must be >= 1, got %d", r.Round)
	case r.EvaluationURL == "":
		return fmt.Errorf("evaluation_url is required")
	}
	u, err := url.Parse(r.EvaluationURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("evaluation_url must be an absolute http(s) URL")
	}
	return nil
}

// RepoName derives the repository name from the task identifier. Path
// separators are replaced so the identifier maps 1:1 onto a directory and
// repository name.
func (r *BuildRequest) RepoName() string {
	return SanitizeRepoName(r.Task)
}

// SanitizeRepoName replaces path separators in a task identifier with "-".
func SanitizeRepoName(task string) string {
	return strings.NewReplacer("/", "-", "\\", "-").Replace(task)
}
