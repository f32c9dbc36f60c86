package build

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"pageforge/internal/config"
	"pageforge/internal/events"
	"pageforge/internal/foundation/errors"
	"pageforge/internal/git"
	"pageforge/internal/journal"
	"pageforge/internal/task"
	"pageforge/internal/testforge"
)

func TestMain(m *testing.M) {
	testforge.InstallFileTransport()
	os.Exit(m.Run())
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.BuildEvent
}

func (p *capturingPublisher) PublishBuildEvent(e *events.BuildEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *e)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) published() []events.BuildEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.BuildEvent(nil), p.events...)
}

// callbackRecorder is an evaluation endpoint capturing delivered results.
type callbackRecorder struct {
	mu      sync.Mutex
	results []task.BuildResult
}

func (c *callbackRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var res task.BuildResult
		if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.mu.Lock()
		c.results = append(c.results, res)
		c.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}
}

func (c *callbackRecorder) delivered() []task.BuildResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]task.BuildResult(nil), c.results...)
}

func newTestService(t *testing.T, fc *testforge.Client) (*Service, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		Server:    config.ServerConfig{Secret: "s3cret"},
		GitHub:    config.GitHubConfig{Owner: "octo", Token: "tok"},
		Workspace: config.WorkspaceConfig{Root: t.TempDir()},
		Notify: config.NotifyConfig{
			Timeout: "2s",
			Retry:   config.RetryConfig{MaxRetries: 2, InitialDelay: "10ms", MaxDelay: "20ms"},
		},
	}
	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc.WithForge(fc), cfg
}

func newRequest(evalURL string) *task.BuildRequest {
	return &task.BuildRequest{
		Email:         "dev@example.com",
		Secret:        "s3cret",
		Task:          "demo/app",
		Round:         1,
		Nonce:         "n-1",
		Brief:         "Build a captcha solver",
		EvaluationURL: evalURL,
		Attachments:   []task.Attachment{{Name: "sample", URL: "https://cdn.example.com/captcha.png"}},
	}
}

func readTreeFile(t *testing.T, root, repo, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, repo, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func TestRunFallbackBuildEndToEnd(t *testing.T) {
	cb := &callbackRecorder{}
	eval := httptest.NewServer(cb.handler())
	defer eval.Close()

	bare := testforge.NewBareRepo(t)
	fc := testforge.NewClient(bare)
	pub := &capturingPublisher{}
	svc, cfg := newTestService(t, fc)
	svc.WithEvents(pub)

	res, err := svc.Run(t.Context(), newRequest(eval.URL))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.Status != task.StatusOK {
		t.Errorf("status = %q, want ok", res.Status)
	}
	if len(res.CommitSHA) != 40 {
		t.Errorf("commit sha = %q, want full hash", res.CommitSHA)
	}
	if res.RepoURL != "https://github.com/octo/demo-app" {
		t.Errorf("repo url = %q", res.RepoURL)
	}
	if res.PagesURL != "https://octo.github.io/demo-app/" {
		t.Errorf("pages url = %q", res.PagesURL)
	}

	if got := fc.CreatedRepos(); len(got) != 1 || got[0] != "demo-app" {
		t.Errorf("created repos = %v, want [demo-app]", got)
	}

	index := readTreeFile(t, cfg.Workspace.Root, "demo-app", "index.html")
	if !strings.Contains(index, "https://cdn.example.com/captcha.png") {
		t.Errorf("fallback page does not carry the attachment URL")
	}
	readTreeFile(t, cfg.Workspace.Root, "demo-app", ".github/workflows/pages.yml")
	if license := readTreeFile(t, cfg.Workspace.Root, "demo-app", "LICENSE"); !strings.HasPrefix(license, "MIT License") {
		t.Errorf("unexpected LICENSE: %q", license)
	}
	readme := readTreeFile(t, cfg.Workspace.Root, "demo-app", "README.md")
	if !strings.Contains(readme, "# Demo App") || !strings.Contains(readme, "(round 1)") {
		t.Errorf("unexpected README: %q", readme)
	}

	if got := testforge.BranchHead(t, bare, git.DefaultBranch); got != res.CommitSHA {
		t.Errorf("remote main at %s, expected %s", got, res.CommitSHA)
	}

	delivered := cb.delivered()
	if len(delivered) != 1 {
		t.Fatalf("callback deliveries = %d, want 1", len(delivered))
	}
	if delivered[0].Task != "demo/app" || delivered[0].Nonce != "n-1" || delivered[0].CommitSHA != res.CommitSHA {
		t.Errorf("callback payload mismatch: %+v", delivered[0])
	}

	published := pub.published()
	if len(published) != 1 {
		t.Fatalf("build events = %d, want 1", len(published))
	}
	ev := published[0]
	if ev.Status != task.StatusOK || ev.Repository != "demo-app" || ev.Source != "fallback" {
		t.Errorf("build event mismatch: %+v", ev)
	}
}

func TestRunRejectsWrongSecret(t *testing.T) {
	cb := &callbackRecorder{}
	eval := httptest.NewServer(cb.handler())
	defer eval.Close()

	fc := testforge.NewClient(testforge.NewBareRepo(t))
	svc, cfg := newTestService(t, fc)

	req := newRequest(eval.URL)
	req.Secret = "wrong"

	_, err := svc.Run(t.Context(), req)
	if err == nil {
		t.Fatal("expected auth error")
	}
	if !errors.HasCategory(err, errors.CategoryAuth) {
		t.Errorf("category = %v, want auth", errors.GetCategory(err))
	}

	if _, err := os.Stat(filepath.Join(cfg.Workspace.Root, "demo-app")); !os.IsNotExist(err) {
		t.Error("working tree was created despite auth failure")
	}
	if got := fc.CreatedRepos(); len(got) != 0 {
		t.Errorf("repositories created despite auth failure: %v", got)
	}
	if got := cb.delivered(); len(got) != 0 {
		t.Errorf("callback delivered despite auth failure: %v", got)
	}
}

func TestRunCallbackFailureDowngradesStatus(t *testing.T) {
	var attempts atomic.Int32
	eval := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		http.Error(w, "unavailable", http.StatusBadGateway)
	}))
	defer eval.Close()

	bare := testforge.NewBareRepo(t)
	fc := testforge.NewClient(bare)
	svc, _ := newTestService(t, fc)

	res, err := svc.Run(t.Context(), newRequest(eval.URL))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.Status != task.StatusAccepted {
		t.Errorf("status = %q, want accepted", res.Status)
	}
	if !strings.Contains(res.Note, "not delivered") {
		t.Errorf("note = %q, want delivery failure summary", res.Note)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("callback attempts = %d, want 3", got)
	}
	if got := testforge.BranchHead(t, bare, git.DefaultBranch); got != res.CommitSHA {
		t.Errorf("build was not published despite accepted status")
	}
}

func TestRunSecondRoundCreatesFreshCommit(t *testing.T) {
	cb := &callbackRecorder{}
	eval := httptest.NewServer(cb.handler())
	defer eval.Close()

	bare := testforge.NewBareRepo(t)
	fc := testforge.NewClient(bare)
	svc, _ := newTestService(t, fc)

	first, err := svc.Run(t.Context(), newRequest(eval.URL))
	if err != nil {
		t.Fatalf("round 1: %v", err)
	}

	req := newRequest(eval.URL)
	req.Round = 2
	req.Nonce = "n-2"
	second, err := svc.Run(t.Context(), req)
	if err != nil {
		t.Fatalf("round 2: %v", err)
	}

	if first.CommitSHA == second.CommitSHA {
		t.Error("expected a fresh commit for round 2")
	}
	if got := testforge.BranchHead(t, bare, git.DefaultBranch); got != second.CommitSHA {
		t.Errorf("remote main at %s, expected %s", got, second.CommitSHA)
	}
}

func TestRunForgeFailureFailsBuild(t *testing.T) {
	cb := &callbackRecorder{}
	eval := httptest.NewServer(cb.handler())
	defer eval.Close()

	fc := testforge.NewClient(testforge.NewBareRepo(t))
	fc.FailForbidden()
	svc, cfg := newTestService(t, fc)

	_, err := svc.Run(t.Context(), newRequest(eval.URL))
	if err == nil {
		t.Fatal("expected provision failure")
	}
	if !errors.HasCategory(err, errors.CategoryProvision) {
		t.Errorf("category = %v, want provision", errors.GetCategory(err))
	}

	// Generation runs before provisioning; the tree keeps the files.
	if _, serr := os.Stat(filepath.Join(cfg.Workspace.Root, "demo-app", "index.html")); serr != nil {
		t.Errorf("generated files missing after provision failure: %v", serr)
	}
	if got := cb.delivered(); len(got) != 0 {
		t.Errorf("callback delivered despite failed build: %v", got)
	}
}

func TestRunRecordsJournalTrail(t *testing.T) {
	cb := &callbackRecorder{}
	eval := httptest.NewServer(cb.handler())
	defer eval.Close()

	store, err := journal.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("journal store: %v", err)
	}
	defer store.Close()

	fc := testforge.NewClient(testforge.NewBareRepo(t))
	svc, _ := newTestService(t, fc)
	svc.WithJournal(store)

	res, err := svc.Run(t.Context(), newRequest(eval.URL))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	builds, err := store.RecentBuilds(t.Context(), 10)
	if err != nil {
		t.Fatalf("recent builds: %v", err)
	}
	if len(builds) != 1 {
		t.Fatalf("recent builds = %d, want 1", len(builds))
	}
	summary := builds[0]
	if summary.Status != task.StatusOK || summary.Task != "demo/app" || summary.Commit != res.CommitSHA {
		t.Errorf("summary mismatch: %+v", summary)
	}
	if summary.Source != "fallback" {
		t.Errorf("source = %q, want fallback", summary.Source)
	}
	if summary.FinishedAt == nil {
		t.Error("finished timestamp missing")
	}

	evs, err := store.EventsForBuild(t.Context(), summary.BuildID)
	if err != nil {
		t.Fatalf("events for build: %v", err)
	}
	want := []string{
		journal.EventRequestReceived,
		journal.EventGenerationFinished,
		journal.EventRepositoryProvisioned,
		journal.EventBuildPublished,
		journal.EventCallbackFinished,
		journal.EventBuildFinished,
	}
	if len(evs) != len(want) {
		t.Fatalf("event count = %d, want %d", len(evs), len(want))
	}
	for i, w := range want {
		if evs[i].Type != w {
			t.Errorf("event[%d] = %q, want %q", i, evs[i].Type, w)
		}
	}
}

func TestRunConcurrentSameTaskSerializes(t *testing.T) {
	cb := &callbackRecorder{}
	eval := httptest.NewServer(cb.handler())
	defer eval.Close()

	bare := testforge.NewBareRepo(t)
	fc := testforge.NewClient(bare)
	svc, _ := newTestService(t, fc)

	reqs := []*task.BuildRequest{newRequest(eval.URL), newRequest(eval.URL)}
	reqs[1].Round = 2
	reqs[1].Nonce = "n-2"

	results := make([]*task.BuildResult, len(reqs))
	errs := make([]error, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = svc.Run(context.Background(), req)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if results[0].CommitSHA == results[1].CommitSHA {
		t.Error("concurrent builds produced the same commit")
	}
	head := testforge.BranchHead(t, bare, git.DefaultBranch)
	if head != results[0].CommitSHA && head != results[1].CommitSHA {
		t.Errorf("remote main %s matches neither build", head)
	}
	if got := cb.delivered(); len(got) != 2 {
		t.Errorf("callback deliveries = %d, want 2", len(got))
	}
}
