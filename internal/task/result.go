package task

// Result status values. "ok" means the callback was delivered; "accepted"
// means the build succeeded but delivery did not, with a note explaining why.
const (
	StatusOK       = "ok"
	StatusAccepted = "accepted"
)

// BuildResult is the outcome payload. It echoes the request's correlation
// fields and is produced exactly once per request, regardless of whether the
// callback delivery succeeds.
type BuildResult struct {
	Status    string `json:"status"`
	Email     string `json:"email"`
	Task      string `json:"task"`
	Round     int    `json:"round"`
	Nonce     string `json:"nonce"`
	RepoURL   string `json:"repo_url"`
	CommitSHA string `json:"commit_sha"`
	PagesURL  string `json:"pages_url"`
	Note      string `json:"note,omitempty"`
}

// NewBuildResult assembles a result from request correlation fields and
// publish outputs. Status starts as ok; the notify stage downgrades it.
func NewBuildResult(req *BuildRequest, repoURL, commitSHA, pagesURL string) *BuildResult {
	return &BuildResult{
		Status:    StatusOK,
		Email:     req.Email,
		Task:      req.Task,
		Round:     req.Round,
		Nonce:     req.Nonce,
		RepoURL:   repoURL,
		CommitSHA: commitSHA,
		PagesURL:  pagesURL,
	}
}
