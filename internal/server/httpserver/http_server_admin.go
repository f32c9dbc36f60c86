package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"
)

// startAdminServerWithListener wires the operator endpoints: liveness,
// build history, repository previews and metrics.
func (s *Server) startAdminServerWithListener(_ context.Context, ln net.Listener) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.healthHandlers.HandleHealthz)
	mux.HandleFunc("/builds", s.adminHandlers.HandleBuilds)
	mux.HandleFunc("/preview/{repo}", s.adminHandlers.HandlePreview)

	if s.cfg.Metrics.Enabled && s.opts.PrometheusHandler != nil {
		mux.Handle("/metrics", s.opts.PrometheusHandler)
	}

	s.adminServer = &http.Server{
		Handler:     s.mchain(mux),
		ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second, IdleTimeout: 120 * time.Second,
	}
	return s.startServerWithListener("admin", s.adminServer, ln)
}
