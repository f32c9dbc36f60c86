package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"pageforge/internal/config"
	"pageforge/internal/foundation/errors"
	"pageforge/internal/logfields"
)

// maxErrorBody caps how much of an API error response is read for
// classification.
const maxErrorBody = 64 << 10

// GitHubClient implements Client against the GitHub REST API.
type GitHubClient struct {
	httpClient *http.Client
	apiURL     string
	webURL     string
	owner      string
	token      string
	private    bool
}

// NewGitHubClient creates a GitHub client from the service configuration.
func NewGitHubClient(cfg config.GitHubConfig) (*GitHubClient, error) {
	client := &GitHubClient{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		apiURL:     cfg.APIBaseURL,
		webURL:     cfg.WebBaseURL,
		owner:      cfg.Owner,
		token:      cfg.Token,
		private:    cfg.Private,
	}

	if client.apiURL == "" {
		client.apiURL = config.DefaultAPIBaseURL
	}
	if client.webURL == "" {
		client.webURL = config.DefaultWebBaseURL
	}
	if client.owner == "" {
		return nil, errors.ConfigError("GitHub client requires an owner").Build()
	}
	if client.token == "" {
		return nil, errors.ConfigError("GitHub client requires token authentication").Build()
	}

	return client, nil
}

// createRepoPayload is the request body for the create-repository endpoint.
type createRepoPayload struct {
	Name     string `json:"name"`
	Private  bool   `json:"private"`
	AutoInit bool   `json:"auto_init"`
}

// EnsureRepo creates the repository under the authenticated user. A 422
// response, or any response whose body reports the name as taken, means
// the repository already exists and counts as success.
func (c *GitHubClient) EnsureRepo(ctx context.Context, name string) error {
	payload := createRepoPayload{Name: name, Private: c.private, AutoInit: false}
	req, err := c.newRequest(ctx, http.MethodPost, "/user/repos", payload)
	if err != nil {
		return errors.WrapError(err, errors.CategoryForge, "build create-repository request").Build()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WrapError(err, errors.CategoryForge, fmt.Sprintf("create repository %s", name)).
			WithContext("repository", name).
			Build()
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	switch {
	case resp.StatusCode == http.StatusCreated:
		slog.Info("Repository created", logfields.Repository(name), slog.String("owner", c.owner))
		return nil
	case resp.StatusCode == http.StatusUnprocessableEntity:
		slog.Info("Repository already exists", logfields.Repository(name), slog.String("owner", c.owner))
		return nil
	case strings.Contains(string(body), "already exists"):
		slog.Info("Repository already exists", logfields.Repository(name), slog.String("owner", c.owner))
		return nil
	default:
		return errors.ForgeError(fmt.Sprintf("create repository %s: %s", name, resp.Status)).
			WithContext("repository", name).
			WithContext("status_code", resp.StatusCode).
			Build()
	}
}

// RemoteURL returns the authenticated push URL for the repository.
func (c *GitHubClient) RemoteURL(name string) string {
	u, err := url.Parse(c.webURL)
	if err != nil {
		return ""
	}
	u.User = url.UserPassword(c.owner, c.token)
	u.Path = path.Join(u.Path, c.owner, name+".git")
	return u.String()
}

// RepoURL returns the browser URL of the repository.
func (c *GitHubClient) RepoURL(name string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.webURL, "/"), c.owner, name)
}

// PagesURL returns the GitHub Pages URL the deployed site is served from.
func (c *GitHubClient) PagesURL(name string) string {
	return fmt.Sprintf("https://%s.github.io/%s/", c.owner, name)
}

func (c *GitHubClient) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, err
	}
	u.Path = path.Join(u.Path, endpoint)

	var req *http.Request
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req, err = http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(string(jsonBody)))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		var err error
		req, err = http.NewRequestWithContext(ctx, method, u.String(), nil)
		if err != nil {
			return nil, err
		}
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", "PageForge/1.0")

	return req, nil
}
