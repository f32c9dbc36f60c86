package build

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pageforge/internal/config"
	"pageforge/internal/events"
	"pageforge/internal/forge"
	"pageforge/internal/foundation/errors"
	"pageforge/internal/generate"
	"pageforge/internal/git"
	"pageforge/internal/journal"
	"pageforge/internal/logfields"
	"pageforge/internal/metrics"
	"pageforge/internal/notify"
	"pageforge/internal/observability"
	"pageforge/internal/provision"
	"pageforge/internal/publish"
	"pageforge/internal/task"
	"pageforge/internal/workspace"
)

// Pipeline stage names used in logs and metric labels.
const (
	StageAuth      = "auth"
	StageGenerate  = "generate"
	StageProvision = "provision"
	StagePublish   = "publish"
	StageNotify    = "notify"
)

// Service executes the build pipeline. Concurrent requests run in
// parallel; requests for the same repository serialize on the workspace
// lock, held from generation through publish.
type Service struct {
	cfg *config.Config

	ws          *workspace.Manager
	git         git.VCS
	generator   *generate.Generator
	forge       forge.Client
	provisioner *provision.Provisioner
	publisher   *publish.Publisher
	notifier    *notify.Notifier

	journal  journal.Store
	events   events.Publisher
	recorder metrics.Recorder
}

// NewService wires the pipeline from configuration. The journal, event
// publisher and metrics recorder default to no-ops; inject real ones
// with the With methods.
func NewService(cfg *config.Config) (*Service, error) {
	fc, err := forge.NewGitHubClient(cfg.GitHub)
	if err != nil {
		return nil, err
	}

	ws := workspace.NewManager(cfg.Workspace.Root)
	gs := git.NewService(git.IdentityFor(cfg.GitHub.Owner))

	s := &Service{
		cfg:       cfg,
		ws:        ws,
		git:       gs,
		generator: generate.NewGenerator(cfg.Generator),
		notifier:  notify.NewNotifier(cfg.Notify),
		journal:   journal.NoopStore{},
		events:    events.NoopPublisher{},
		recorder:  metrics.NoopRecorder{},
	}
	s.setForge(fc)
	s.publisher = publish.NewPublisher(gs)
	return s, nil
}

// WithForge overrides the forge client. Tests use it to point pushes at
// a local bare repository.
func (s *Service) WithForge(fc forge.Client) *Service {
	s.setForge(fc)
	return s
}

// WithGenerator overrides the content generator.
func (s *Service) WithGenerator(g *generate.Generator) *Service {
	s.generator = g
	return s
}

// WithJournal injects a build journal store.
func (s *Service) WithJournal(store journal.Store) *Service {
	if store == nil {
		store = journal.NoopStore{}
	}
	s.journal = store
	return s
}

// WithEvents injects a build event publisher.
func (s *Service) WithEvents(p events.Publisher) *Service {
	if p == nil {
		p = events.NoopPublisher{}
	}
	s.events = p
	return s
}

// WithRecorder injects a metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// Workspace exposes the workspace manager for the admin surface.
func (s *Service) Workspace() *workspace.Manager {
	return s.ws
}

// Run executes the complete pipeline for one validated request and
// returns its result. The returned error is classified; the HTTP layer
// maps it to a status code.
func (s *Service) Run(ctx context.Context, req *task.BuildRequest) (*task.BuildResult, error) {
	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(s.cfg.Server.Secret)) != 1 {
		s.recorder.IncStageResult(StageAuth, metrics.ResultFatal)
		return nil, errors.AuthError("Invalid secret").Build()
	}
	s.recorder.IncStageResult(StageAuth, metrics.ResultSuccess)

	buildID := uuid.NewString()
	repoName := req.RepoName()
	ctx = observability.WithBuild(ctx, buildID, repoName, req.Task)

	start := time.Now()
	s.recorder.AddBuildsInFlight(1)
	defer s.recorder.AddBuildsInFlight(-1)

	observability.InfoContext(ctx, "Build accepted",
		logfields.Round(req.Round),
		logfields.Nonce(req.Nonce))
	s.record(ctx, buildID, repoName, journal.EventRequestReceived, journal.RequestReceivedPayload{
		Task:  req.Task,
		Round: req.Round,
		Nonce: req.Nonce,
	})

	release := s.ws.Lock(repoName)
	locked := true
	unlock := func() {
		if locked {
			locked = false
			release()
		}
	}
	defer unlock()

	stageStart := time.Now()
	stageCtx := observability.WithStage(ctx, StageGenerate)
	gen, err := s.generator.Generate(stageCtx, s.ws.TreePath(repoName), req.Brief, defaultImageURL(req))
	if err != nil {
		classified := errors.WrapError(err, errors.CategoryFileSystem, "write generated files").
			WithSeverity(errors.SeverityFatal).
			Build()
		return nil, s.fail(stageCtx, buildID, req, repoName, start, StageGenerate, classified)
	}
	s.recorder.ObserveStageDuration(StageGenerate, time.Since(stageStart))
	s.recorder.IncStageResult(StageGenerate, metrics.ResultSuccess)
	if gen.Source == generate.SourceFallback {
		s.recorder.IncGenerationFallback()
	}
	s.record(ctx, buildID, repoName, journal.EventGenerationFinished, journal.GenerationFinishedPayload{
		Source:     string(gen.Source),
		FileCount:  len(gen.Files),
		DurationMS: time.Since(stageStart).Milliseconds(),
	})

	stageStart = time.Now()
	stageCtx = observability.WithStage(ctx, StageProvision)
	dir, err := s.provisioner.Ensure(stageCtx, repoName)
	if err != nil {
		return nil, s.fail(stageCtx, buildID, req, repoName, start, StageProvision, err)
	}
	title := provision.RepoTitle(repoName)
	summary := provision.BuildSummary(req.Brief, req.Task, req.Round)
	if err := provision.WriteAuxiliaryFiles(dir, title, summary); err != nil {
		classified := errors.WrapError(err, errors.CategoryProvision, "write auxiliary files").
			WithSeverity(errors.SeverityFatal).
			Build()
		return nil, s.fail(stageCtx, buildID, req, repoName, start, StageProvision, classified)
	}
	s.recorder.ObserveStageDuration(StageProvision, time.Since(stageStart))
	s.recorder.IncStageResult(StageProvision, metrics.ResultSuccess)
	s.record(ctx, buildID, repoName, journal.EventRepositoryProvisioned, journal.RepositoryProvisionedPayload{
		RepoURL: s.forge.RepoURL(repoName),
	})

	stageStart = time.Now()
	stageCtx = observability.WithStage(ctx, StagePublish)
	sha, err := s.publisher.CommitAndPush(stageCtx, dir, provision.RemoteName)
	if err != nil {
		return nil, s.fail(stageCtx, buildID, req, repoName, start, StagePublish, err)
	}
	unlock()
	s.recorder.ObserveStageDuration(StagePublish, time.Since(stageStart))
	s.recorder.IncStageResult(StagePublish, metrics.ResultSuccess)
	s.record(ctx, buildID, repoName, journal.EventBuildPublished, journal.BuildPublishedPayload{
		Commit:     sha,
		DurationMS: time.Since(stageStart).Milliseconds(),
	})

	result := task.NewBuildResult(req, s.forge.RepoURL(repoName), sha, s.forge.PagesURL(repoName))

	stageStart = time.Now()
	stageCtx = observability.WithStage(ctx, StageNotify)
	delivered, note := s.notifier.Deliver(stageCtx, req.EvaluationURL, result)
	if !delivered {
		result.Status = task.StatusAccepted
		result.Note = note
		observability.WarnContext(stageCtx, "Evaluation callback not delivered", slog.String("note", note))
	}
	s.recorder.ObserveStageDuration(StageNotify, time.Since(stageStart))
	s.recorder.IncCallbackResult(delivered)
	s.record(ctx, buildID, repoName, journal.EventCallbackFinished, journal.CallbackFinishedPayload{
		Delivered: delivered,
		Note:      note,
	})

	s.finish(ctx, buildID, req, repoName, result, gen.Source, start)
	return result, nil
}

func (s *Service) setForge(fc forge.Client) {
	s.forge = fc
	s.provisioner = provision.NewProvisioner(fc, s.git, s.ws)
}

// finish closes out a successful build: terminal journal event, build
// event, outcome metrics.
func (s *Service) finish(ctx context.Context, buildID string, req *task.BuildRequest, repoName string, result *task.BuildResult, source generate.Source, start time.Time) {
	duration := time.Since(start)
	s.record(ctx, buildID, repoName, journal.EventBuildFinished, journal.BuildFinishedPayload{
		Status:     result.Status,
		Commit:     result.CommitSHA,
		PagesURL:   result.PagesURL,
		DurationMS: duration.Milliseconds(),
		Note:       result.Note,
	})
	s.publishEvent(ctx, &events.BuildEvent{
		BuildID:    buildID,
		Repository: repoName,
		Task:       req.Task,
		Round:      req.Round,
		Status:     result.Status,
		Commit:     result.CommitSHA,
		PagesURL:   result.PagesURL,
		Source:     string(source),
	})
	s.recorder.IncBuildOutcome(result.Status)
	s.recorder.ObserveBuildDuration(duration)
	observability.InfoContext(ctx, "Build finished",
		logfields.Status(result.Status),
		logfields.Commit(result.CommitSHA),
		logfields.DurationMS(float64(duration.Milliseconds())))
}

// fail closes out a build that cannot continue and hands the classified
// error back to the caller.
func (s *Service) fail(ctx context.Context, buildID string, req *task.BuildRequest, repoName string, start time.Time, stage string, err error) error {
	duration := time.Since(start)
	s.recorder.IncStageResult(stage, metrics.ResultFatal)
	s.recorder.IncBuildOutcome(journal.StatusFailed)
	s.recorder.ObserveBuildDuration(duration)
	s.record(ctx, buildID, repoName, journal.EventBuildFinished, journal.BuildFinishedPayload{
		Status:     journal.StatusFailed,
		DurationMS: duration.Milliseconds(),
		Error:      err.Error(),
	})
	s.publishEvent(ctx, &events.BuildEvent{
		BuildID:    buildID,
		Repository: repoName,
		Task:       req.Task,
		Round:      req.Round,
		Status:     journal.StatusFailed,
	})
	observability.ErrorContext(ctx, "Build failed", logfields.Error(err))
	return err
}

func (s *Service) record(ctx context.Context, buildID, repoName, eventType string, payload any) {
	if err := journal.Record(ctx, s.journal, buildID, repoName, eventType, payload); err != nil {
		observability.WarnContext(ctx, "Journal write failed", logfields.Error(err))
	}
}

func (s *Service) publishEvent(ctx context.Context, event *events.BuildEvent) {
	if err := s.events.PublishBuildEvent(event); err != nil {
		observability.WarnContext(ctx, "Build event publish failed", logfields.Error(err))
	}
}

// defaultImageURL picks the image the fallback page loads when the query
// string carries none: the first attachment, if any.
func defaultImageURL(req *task.BuildRequest) string {
	if len(req.Attachments) > 0 {
		return req.Attachments[0].URL
	}
	return ""
}
