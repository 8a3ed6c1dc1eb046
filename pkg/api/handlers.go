package api

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/filter"
	"github.com/jmontes/listry/pkg/query"
	"github.com/jmontes/listry/pkg/realtime"
	"github.com/jmontes/listry/pkg/render"
	"github.com/jmontes/listry/pkg/search"
	"github.com/jmontes/listry/pkg/version"
)

//go:embed templates/page.html
var pageFS embed.FS

var pageTemplate = template.Must(template.ParseFS(pageFS, "templates/page.html"))

type pageData struct {
	Form      template.HTML
	Chips     template.HTML
	NoResults template.HTML
	Listings  []ListingResponse
	Count     string
	Page      int
	HasMore   bool
	NextURL   string
}

// HandleSearchPage renders the HTML search page: form, active-filter chips,
// and the current result page.
func (s *Server) HandleSearchPage(w http.ResponseWriter, r *http.Request) {
	req := core.NewSearchRequest(r.URL.Query())

	listings, active, hasMore, err := s.runSearch(req)
	if err != nil {
		logger.Errorf("search failed: %v", err)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	form, err := s.renderer.Form(req)
	if err != nil {
		logger.Errorf("rendering form: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	chips, err := s.renderer.Chips(req, active)
	if err != nil {
		logger.Errorf("rendering chips: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	data := pageData{
		Form:     form,
		Chips:    chips,
		Listings: toListingResponses(listings),
		Count:    render.FormatCount(len(listings)),
		Page:     req.Page(),
		HasMore:  hasMore,
	}
	if len(listings) == 0 {
		noResults, err := s.renderer.NoResults()
		if err == nil {
			data.NoResults = noResults
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		logger.Errorf("rendering page: %v", err)
	}
}

// HandleSearch is the JSON search endpoint.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	req := core.NewSearchRequest(r.URL.Query())

	listings, active, hasMore, err := s.runSearch(req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	response := SearchResponse{
		Listings: toListingResponses(listings),
		Count:    len(listings),
		Page:     req.Page(),
		PerPage:  s.cfg.PageSize,
		HasMore:  hasMore,
	}
	for _, a := range active {
		if a.Filter.Name() == search.KeywordParam {
			response.Keyword = a.Value.Text
		}
		response.ActiveFilters = append(response.ActiveFilters, ActiveFilterResponse{
			Name:    a.Filter.Name(),
			Label:   a.Filter.Label(),
			Display: a.Filter.DisplayValue(a.Value),
		})
	}

	s.writeJSON(w, http.StatusOK, response)
}

// runSearch resolves the request into a query, executes it and returns the
// page plus the active filter set.
func (s *Server) runSearch(req core.SearchRequest) ([]core.Listing, filter.ActiveSet, bool, error) {
	b := query.NewBuilder()
	active := s.orchestrator.Apply(b, req)
	b.SetPagination(req.Page(), s.cfg.PageSize)

	listings, hasMore, err := s.store.Execute(b)
	if err != nil {
		return nil, nil, false, err
	}
	return listings, active, hasMore, nil
}

// HandleCreateListing ingests one listing: stored first, then announced on
// the hub so watch clients see it. A missing ID gets a generated one.
func (s *Server) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(w, http.StatusBadRequest, "Invalid listing", "title is required")
		return
	}

	listing := core.Listing{
		ID:        req.ID,
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Category:  req.Category,
		Status:    req.Status,
		CreatedAt: req.CreatedAt,
		Meta:      req.Meta,
	}
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now().UTC()
	}

	if err := s.store.StoreListing(listing); err != nil {
		logger.Errorf("storing listing %s: %v", listing.ID, err)
		s.writeError(w, http.StatusInternalServerError, "Store failed", err.Error())
		return
	}

	if s.hub != nil {
		s.hub.Broadcast(realtime.ListingEvent{
			ID:        listing.ID,
			Title:     listing.Title,
			Category:  listing.Category,
			CreatedAt: listing.CreatedAt,
		})
	}

	s.writeJSON(w, http.StatusCreated, ListingResponse{
		ID:        listing.ID,
		Title:     listing.Title,
		Excerpt:   listing.Excerpt,
		Category:  listing.Category,
		CreatedAt: listing.CreatedAt,
		Meta:      listing.Meta,
	})
}

// HandleListFilters returns the registered filter catalog in registry order.
func (s *Server) HandleListFilters(w http.ResponseWriter, r *http.Request) {
	filters := s.registry.List(filter.ListOptions{})

	response := ListFiltersResponse{Count: len(filters)}
	for _, f := range filters {
		response.Filters = append(response.Filters, FilterResponse{
			Name:     f.Name(),
			Type:     string(f.Type()),
			Label:    f.Label(),
			Source:   f.Source(),
			Priority: f.Priority(),
			Enabled:  f.Enabled(),
			Params:   f.URLParams(),
		})
	}

	s.writeJSON(w, http.StatusOK, response)
}

// HandleHealth reports liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	})
}

func toListingResponses(listings []core.Listing) []ListingResponse {
	out := make([]ListingResponse, len(listings))
	for i, l := range listings {
		out[i] = ListingResponse{
			ID:        l.ID,
			Title:     l.Title,
			Excerpt:   l.Excerpt,
			Category:  l.Category,
			CreatedAt: l.CreatedAt,
			Meta:      l.Meta,
		}
	}
	return out
}
