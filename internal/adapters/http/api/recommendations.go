package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/architex/internal/domain/types"
)

// RecommendationDependencies defines the ranking operations.
type RecommendationDependencies interface {
	Recommendations(ctx context.Context, userID string, limit int, excludeIDs []string) ([]types.Recommendation, error)
	Replacement(ctx context.Context, userID string, currentIDs []string) (types.Recommendation, error)
}

// RecommendationHandler handles recommendation requests.
type RecommendationHandler struct {
	deps         RecommendationDependencies
	defaultLimit int
	maxLimit     int
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(deps RecommendationDependencies, defaultLimit, maxLimit int) *RecommendationHandler {
	return &RecommendationHandler{
		deps:         deps,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// HandleRecommendations handles GET /api/styles/recommendations?limit=N&exclude=a,b.
// A missing limit uses the default; zero or negative limits yield an empty list.
func (h *RecommendationHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrInvalidLimit)
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: %d", ErrLimitExceeded, h.maxLimit))
			return
		}
		limit = n
	}

	recs, err := h.deps.Recommendations(r.Context(), user, limit, splitIDs(r.URL.Query().Get("exclude")))
	if err != nil {
		writeServiceError(r.Context(), w, "api.recommendations", err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// HandleReplacement handles GET /api/styles/recommendations/replacement?current=a,b.
func (h *RecommendationHandler) HandleReplacement(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	rec, err := h.deps.Replacement(r.Context(), user, splitIDs(r.URL.Query().Get("current")))
	if err != nil {
		writeServiceError(r.Context(), w, "api.replacement", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
