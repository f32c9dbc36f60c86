// Package handlers implements the HTTP handlers of the build API and
// the admin surface.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"pageforge/internal/build"
	"pageforge/internal/foundation/errors"
	"pageforge/internal/task"
)

// TaskHandlers serves the build endpoint.
type TaskHandlers struct {
	service      *build.Service
	errorAdapter *errors.HTTPErrorAdapter
}

// NewTaskHandlers creates handlers backed by the given build service.
func NewTaskHandlers(svc *build.Service) *TaskHandlers {
	return &TaskHandlers{
		service:      svc,
		errorAdapter: errors.NewHTTPErrorAdapter(nil),
	}
}

// HandleTask accepts a build request, runs the pipeline synchronously
// and responds with the build result document.
func (h *TaskHandlers) HandleTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", http.MethodPost).
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	var req task.BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		verr := errors.ValidationError("request body is not valid JSON").
			WithContext("parse_error", err.Error()).
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, verr)
		return
	}

	if err := req.Validate(); err != nil {
		verr := errors.ValidationError(err.Error()).Build()
		h.errorAdapter.WriteErrorResponse(w, r, verr)
		return
	}

	// The pipeline must finish even if the caller disconnects; timeouts
	// on the outbound calls come from configuration.
	result, err := h.service.Run(context.WithoutCancel(r.Context()), &req)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	writeJSONPretty(w, r, http.StatusOK, result)
}
