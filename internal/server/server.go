// Package server exposes the catalog screens and the listing job over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pauljones0/game-deals-catalog/internal/catalog"
	"github.com/pauljones0/game-deals-catalog/internal/models"
	"github.com/pauljones0/game-deals-catalog/internal/processor"
)

const processTimeout = 4 * time.Minute

// Catalog is the set of screens served over HTTP.
type Catalog interface {
	Home(ctx context.Context, params catalog.HomeParams) (*catalog.HomeView, error)
	Explore(ctx context.Context, params catalog.ExploreParams) (*catalog.ExploreView, error)
	Detail(ctx context.Context, gameID string) (*catalog.DetailView, error)
	Favorites(ctx context.Context) (*catalog.FavoritesView, error)
	AddFavorite(ctx context.Context, title, thumb string) (models.FavoriteRecord, error)
	AddFavoriteGame(ctx context.Context, gameID string) (models.FavoriteRecord, error)
}

type Server struct {
	catalog   Catalog
	processor processor.Processor
}

func New(c Catalog, p processor.Processor) *Server {
	return &Server{catalog: c, processor: p}
}

// Routes returns the handler with request id and logging middleware applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /home", s.homeHandler)
	mux.HandleFunc("GET /explore", s.exploreHandler)
	mux.HandleFunc("GET /games/{id}", s.detailHandler)
	mux.HandleFunc("POST /games/{id}/favorite", s.favoriteGameHandler)
	mux.HandleFunc("GET /favorites", s.listFavoritesHandler)
	mux.HandleFunc("POST /favorites", s.addFavoriteHandler)
	mux.HandleFunc("POST /process-listings", s.processListingsHandler)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	return WithRequestID(WithLogging(mux))
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := s.catalog.Home(r.Context(), catalog.HomeParams{Filter: q.Get("filter"), Query: q.Get("query")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) exploreHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := s.catalog.Explore(r.Context(), catalog.ExploreParams{Filter: q.Get("filter"), Query: q.Get("query")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) detailHandler(w http.ResponseWriter, r *http.Request) {
	view, err := s.catalog.Detail(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) favoriteGameHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := s.catalog.AddFavoriteGame(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) listFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	view, err := s.catalog.Favorites(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type addFavoriteRequest struct {
	Title string `json:"title"`
	Thumb string `json:"thumb"`
}

func (s *Server) addFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	var req addFavoriteRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, jsonError{Error: "invalid_json", Details: err.Error()})
		return
	}
	rec, err := s.catalog.AddFavorite(r.Context(), strings.TrimSpace(req.Title), strings.TrimSpace(req.Thumb))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// processListingsHandler runs one snapshot pass and reports what it did.
func (s *Server) processListingsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), processTimeout)
	defer cancel()

	summary, err := s.processor.ProcessListings(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
