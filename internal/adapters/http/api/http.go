// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/okian/architex/internal/adapters/repository"
	service "github.com/okian/architex/internal/app"
	"github.com/okian/architex/internal/domain/model"
	"github.com/okian/architex/pkg/logger"
	"github.com/okian/architex/pkg/metrics"
)

// UserHeader carries the caller's identity. Authentication happens upstream.
const UserHeader = "X-User-ID"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StyleDependencies
	RecommendationDependencies
	FavoriteDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler         *HealthHandler
	statsHandler          *StatsHandler
	stylesHandler         *StylesHandler
	recommendationHandler *RecommendationHandler
	favoritesHandler      *FavoritesHandler
}

// NewServer creates a new API server with all handlers. defaultLimit and
// maxLimit bound GET /api/styles/recommendations?limit.
func NewServer(deps Dependencies, statsProvider StatsProvider, defaultLimit, maxLimit int) *Server {
	return &Server{
		healthHandler:         NewHealthHandler(),
		statsHandler:          NewStatsHandler(statsProvider),
		stylesHandler:         NewStylesHandler(deps),
		recommendationHandler: NewRecommendationHandler(deps, defaultLimit, maxLimit),
		favoritesHandler:      NewFavoritesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/styles", MetricsMiddleware(s.stylesHandler.HandleList, "styles_list"))
	mux.HandleFunc("POST /api/styles", MetricsMiddleware(s.stylesHandler.HandleCreate, "styles_create"))
	mux.HandleFunc("GET /api/styles/search/{keyword}", MetricsMiddleware(s.stylesHandler.HandleSearch, "styles_search"))
	mux.HandleFunc("GET /api/styles/recommendations", MetricsMiddleware(s.recommendationHandler.HandleRecommendations, "recommendations"))
	mux.HandleFunc("GET /api/styles/recommendations/replacement", MetricsMiddleware(s.recommendationHandler.HandleReplacement, "recommendations_replacement"))
	mux.HandleFunc("GET /api/styles/{id}", MetricsMiddleware(s.stylesHandler.HandleGet, "styles_get"))
	mux.HandleFunc("PUT /api/styles/{id}", MetricsMiddleware(s.stylesHandler.HandleUpdate, "styles_update"))
	mux.HandleFunc("DELETE /api/styles/{id}", MetricsMiddleware(s.stylesHandler.HandleDelete, "styles_delete"))

	mux.HandleFunc("GET /api/users/favorites", MetricsMiddleware(s.favoritesHandler.HandleList, "favorites_list"))
	mux.HandleFunc("PUT /api/users/favorites/{styleId}", MetricsMiddleware(s.favoritesHandler.HandleToggle, "favorites_toggle"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service and store errors to HTTP responses.
func writeServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrNoRecommendation):
		writeError(w, http.StatusNotFound, "no_recommendation", err)
	case errors.Is(err, model.ErrInvalidStyle):
		writeError(w, http.StatusBadRequest, "validation_error", err)
	case errors.Is(err, repository.ErrDuplicateName):
		writeError(w, http.StatusBadRequest, "duplicate_name", err)
	case errors.Is(err, repository.ErrForbidden):
		writeError(w, http.StatusUnauthorized, "forbidden", err)
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated", err)
	default:
		logger.Named("api").Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
		metrics.RecordErrorByComponent(op, "internal_error")
		writeError(w, http.StatusInternalServerError, "internal_error", errors.New(http.StatusText(http.StatusInternalServerError)))
	}
}

// userID returns the caller id or writes a 401.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.Header.Get(UserHeader))
	if id == "" {
		writeError(w, http.StatusUnauthorized, "unauthenticated", ErrMissingUser)
		return "", false
	}
	return id, true
}

// splitIDs parses a comma separated id list, dropping blanks.
func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(ErrInvalidBody, err)
	}
	return nil
}
