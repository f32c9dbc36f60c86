package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"pageforge/internal/logfields"
)

// writeJSON writes v as a JSON response with the given status code. The
// body is encoded into a buffer first so an encoding failure can still
// produce a clean 500 instead of a half-written response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", logfields.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Failed to write JSON response", logfields.Error(err))
	}
}

// writeJSONPretty behaves like writeJSON but honors ?pretty=1 for
// human-readable output.
func writeJSONPretty(w http.ResponseWriter, r *http.Request, status int, v any) {
	pretty := r.URL.Query().Get("pretty")
	if pretty != "1" && pretty != "true" {
		writeJSON(w, status, v)
		return
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		slog.Error("Failed to encode JSON response", logfields.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	data = append(data, '\n')

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to write JSON response", logfields.Error(err))
	}
}
