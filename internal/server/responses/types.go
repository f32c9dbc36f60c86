// Package responses defines the JSON response types of the HTTP surface.
package responses

import (
	"time"

	"pageforge/internal/journal"
)

// ServiceInfo is the root endpoint payload. The message documents how to
// trigger a build; docs points at the API description path.
type ServiceInfo struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Docs    string `json:"docs"`
}

// BuildsResponse wraps the recent-build listing from the journal.
type BuildsResponse struct {
	Status    string                 `json:"status"`
	Builds    []journal.BuildSummary `json:"builds"`
	Count     int                    `json:"count"`
	Timestamp time.Time              `json:"timestamp"`
}
