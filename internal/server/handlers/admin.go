package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"pageforge/internal/foundation/errors"
	"pageforge/internal/journal"
	"pageforge/internal/logfields"
	"pageforge/internal/preview"
	"pageforge/internal/server/responses"
)

// defaultBuildsLimit caps the /builds listing when no limit is given.
const defaultBuildsLimit = 20

// AdminHandlers serves the operator endpoints on the admin listener.
type AdminHandlers struct {
	journal      journal.Store
	preview      *preview.Service
	errorAdapter *errors.HTTPErrorAdapter
}

// NewAdminHandlers creates handlers for the admin surface.
func NewAdminHandlers(store journal.Store, pv *preview.Service) *AdminHandlers {
	return &AdminHandlers{
		journal:      store,
		preview:      pv,
		errorAdapter: errors.NewHTTPErrorAdapter(nil),
	}
}

// HandleBuilds lists recent builds from the journal, newest first.
func (h *AdminHandlers) HandleBuilds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", http.MethodGet).
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	limit := defaultBuildsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	builds, err := h.journal.RecentBuilds(r.Context(), limit)
	if err != nil {
		jerr := errors.WrapError(err, errors.CategoryJournal, "list recent builds").Build()
		h.errorAdapter.WriteErrorResponse(w, r, jerr)
		return
	}

	writeJSONPretty(w, r, http.StatusOK, responses.BuildsResponse{
		Status:    "ok",
		Builds:    builds,
		Count:     len(builds),
		Timestamp: time.Now().UTC(),
	})
}

// HandlePreview renders an HTML overview of a generated repository.
func (h *AdminHandlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", http.MethodGet).
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	repoName := r.PathValue("repo")
	page, err := h.preview.Build(repoName)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := preview.Render(w, page); err != nil {
		slog.Error("Failed to render preview", logfields.Repository(repoName), logfields.Error(err))
	}
}
