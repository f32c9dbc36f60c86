// Package httpserver wires the HTTP surface of the service: the task
// API listener and the optional admin listener.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"pageforge/internal/build"
	"pageforge/internal/config"
	derrors "pageforge/internal/foundation/errors"
	"pageforge/internal/journal"
	"pageforge/internal/preview"
	handlers "pageforge/internal/server/handlers"
	smw "pageforge/internal/server/middleware"
)

// Options carries the optional collaborators of the HTTP layer.
type Options struct {
	// Journal backs the /builds listing. Nil falls back to the no-op
	// store.
	Journal journal.Store

	// Preview renders /preview/{repo}. Nil derives one from the build
	// service workspace.
	Preview *preview.Service

	// PrometheusHandler serves /metrics on the admin listener when
	// metrics are enabled.
	PrometheusHandler http.Handler
}

// Server manages the HTTP endpoints (task API, admin).
type Server struct {
	apiServer   *http.Server
	adminServer *http.Server
	cfg         *config.Config
	opts        Options

	apiAddr   string
	adminAddr string

	// Handler modules
	taskHandlers   *handlers.TaskHandlers
	healthHandlers *handlers.HealthHandlers
	adminHandlers  *handlers.AdminHandlers

	// middleware chain
	mchain func(http.Handler) http.Handler
}

// New constructs a new HTTP server wiring instance.
func New(cfg *config.Config, svc *build.Service, opts Options) *Server {
	if opts.Journal == nil {
		opts.Journal = journal.NoopStore{}
	}
	if opts.Preview == nil {
		opts.Preview = preview.NewService(svc.Workspace())
	}

	return &Server{
		cfg:            cfg,
		opts:           opts,
		taskHandlers:   handlers.NewTaskHandlers(svc),
		healthHandlers: handlers.NewHealthHandlers(),
		adminHandlers:  handlers.NewAdminHandlers(opts.Journal, opts.Preview),
		mchain:         smw.Chain(slog.Default(), derrors.NewHTTPErrorAdapter(slog.Default())),
	}
}

// APIAddr returns the bound address of the task API listener.
func (s *Server) APIAddr() string { return s.apiAddr }

// AdminAddr returns the bound address of the admin listener, or "" when
// the admin surface is disabled.
func (s *Server) AdminAddr() string { return s.adminAddr }

// Start initializes and starts all HTTP servers.
func (s *Server) Start(ctx context.Context) error {
	// Pre-bind all required ports so a conflict fails fast with one
	// aggregate error instead of logging independent 'address already in
	// use' lines after partial initialization.
	type preBind struct {
		name string
		addr string
		ln   net.Listener
	}
	binds := []preBind{
		{name: "api", addr: net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))},
	}
	if s.cfg.Server.AdminPort > 0 {
		binds = append(binds, preBind{
			name: "admin",
			addr: net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.AdminPort)),
		})
	}

	var bindErrs []error
	lc := net.ListenConfig{}
	for i := range binds {
		ln, err := lc.Listen(ctx, "tcp", binds[i].addr)
		if err != nil {
			bindErrs = append(bindErrs, fmt.Errorf("%s %s: %w", binds[i].name, binds[i].addr, err))
			continue
		}
		binds[i].ln = ln
	}
	if len(bindErrs) > 0 {
		// Close any successful listeners before returning
		for _, b := range binds {
			if b.ln != nil {
				_ = b.ln.Close()
			}
		}
		return fmt.Errorf("http startup failed: %w", errors.Join(bindErrs...))
	}

	s.apiAddr = binds[0].ln.Addr().String()
	if err := s.startAPIServerWithListener(ctx, binds[0].ln); err != nil {
		return fmt.Errorf("failed to start api server: %w", err)
	}

	if len(binds) > 1 {
		s.adminAddr = binds[1].ln.Addr().String()
		if err := s.startAdminServerWithListener(ctx, binds[1].ln); err != nil {
			return fmt.Errorf("failed to start admin server: %w", err)
		}
		slog.Info("HTTP servers started",
			slog.String("api_addr", s.apiAddr),
			slog.String("admin_addr", s.adminAddr))
	} else {
		slog.Info("HTTP server started", slog.String("api_addr", s.apiAddr))
	}
	return nil
}

func (s *Server) startAPIServerWithListener(_ context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", s.healthHandlers.HandleRoot)
	mux.HandleFunc("/task", s.taskHandlers.HandleTask)

	s.apiServer = &http.Server{
		Handler:           s.mchain(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Builds run synchronously inside the request; the write timeout
		// must outlast generation, the push and the callback retries.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	return s.startServerWithListener("api", s.apiServer, ln)
}

// Stop gracefully shuts down all HTTP servers.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error

	// Stop servers in reverse order
	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
		}
	}

	if s.apiServer != nil {
		if err := s.apiServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("api server shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	slog.Info("HTTP servers stopped")
	return nil
}

// startServerWithListener launches an http.Server on a pre-bound listener.
// It standardizes goroutine startup and error logging across server types.
func (s *Server) startServerWithListener(kind string, srv *http.Server, ln net.Listener) error {
	go func() {
		err := srv.Serve(ln)
		if err != nil && err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s server error", kind), "error", err)
		}
	}()
	return nil
}
