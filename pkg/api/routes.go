package api

import "net/http"

// RegisterRoutes mounts all handlers on the mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.HandleSearchPage)
	mux.HandleFunc("GET /search", s.HandleSearchPage)
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("POST /api/listings", s.HandleCreateListing)
	mux.HandleFunc("GET /api/filters", s.HandleListFilters)
	mux.HandleFunc("GET /api/watch", s.HandleWatch)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
