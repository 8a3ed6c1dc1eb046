package api

import "time"

// ListingResponse is the wire form of one listing.
type ListingResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Excerpt   string            `json:"excerpt,omitempty"`
	Category  string            `json:"category,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// CreateListingRequest is the ingest payload. ID and CreatedAt are optional;
// missing values are generated server-side.
type CreateListingRequest struct {
	ID        string            `json:"id,omitempty"`
	Title     string            `json:"title"`
	Content   string            `json:"content,omitempty"`
	Excerpt   string            `json:"excerpt,omitempty"`
	Category  string            `json:"category,omitempty"`
	Status    string            `json:"status,omitempty"`
	CreatedAt time.Time         `json:"created_at,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// ActiveFilterResponse echoes one active filter back to the client.
type ActiveFilterResponse struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Display string `json:"display"`
}

// SearchResponse is the JSON search result envelope.
type SearchResponse struct {
	Listings      []ListingResponse      `json:"listings"`
	Count         int                    `json:"count"`
	Page          int                    `json:"page"`
	PerPage       int                    `json:"per_page"`
	HasMore       bool                   `json:"has_more"`
	Keyword       string                 `json:"keyword,omitempty"`
	ActiveFilters []ActiveFilterResponse `json:"active_filters"`
}

// FilterResponse describes one registered filter.
type FilterResponse struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Source   string   `json:"source"`
	Priority int      `json:"priority"`
	Enabled  bool     `json:"enabled"`
	Params   []string `json:"params"`
}

// ListFiltersResponse wraps the filter catalog.
type ListFiltersResponse struct {
	Filters []FilterResponse `json:"filters"`
	Count   int              `json:"count"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}
