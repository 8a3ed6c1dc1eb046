// Package api serves the search engine over HTTP: the HTML search page, the
// JSON API, and the websocket watch stream.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/jmontes/listry/pkg/config"
	"github.com/jmontes/listry/pkg/filter"
	"github.com/jmontes/listry/pkg/log"
	"github.com/jmontes/listry/pkg/realtime"
	"github.com/jmontes/listry/pkg/render"
	"github.com/jmontes/listry/pkg/search"
	"github.com/jmontes/listry/pkg/storage"
)

var logger = log.ForService("api")

// Server wires the engine's collaborators behind HTTP handlers.
type Server struct {
	registry     *filter.Registry
	store        *storage.Store
	orchestrator *search.Orchestrator
	renderer     *render.Renderer
	hub          *realtime.Hub
	cfg          *config.Config
}

// NewServer builds a server. hub may be nil to disable the watch endpoint's
// event delivery (the endpoint still accepts connections and idles).
func NewServer(
	registry *filter.Registry,
	store *storage.Store,
	orchestrator *search.Orchestrator,
	renderer *render.Renderer,
	hub *realtime.Hub,
	cfg *config.Config,
) *Server {
	return &Server{
		registry:     registry,
		store:        store,
		orchestrator: orchestrator,
		renderer:     renderer,
		hub:          hub,
		cfg:          cfg,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: error, Message: message})
}

// CorsMiddleware allows cross-origin reads of the JSON API.
func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
