package handlers

import (
	"net/http"

	"pageforge/internal/foundation/errors"
	"pageforge/internal/server/responses"
)

// ServiceMessage describes the API on the root endpoint.
const ServiceMessage = "LLM Build & Deploy API. POST /task with the JSON request to trigger a build."

// HealthHandlers serves the service info and liveness endpoints.
type HealthHandlers struct {
	errorAdapter *errors.HTTPErrorAdapter
}

// NewHealthHandlers creates handlers for the health endpoints.
func NewHealthHandlers() *HealthHandlers {
	return &HealthHandlers{
		errorAdapter: errors.NewHTTPErrorAdapter(nil),
	}
}

// HandleRoot responds with service identification info.
func (h *HealthHandlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", http.MethodGet).
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	writeJSONPretty(w, r, http.StatusOK, responses.ServiceInfo{
		Status:  "ok",
		Message: ServiceMessage,
		Docs:    "/docs",
	})
}

// HandleHealthz is a plain liveness probe.
func (h *HealthHandlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
