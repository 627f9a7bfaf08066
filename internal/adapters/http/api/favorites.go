package api

import (
	"context"
	"net/http"

	"github.com/okian/architex/internal/domain/types"
)

// FavoriteDependencies defines the favorites operations.
type FavoriteDependencies interface {
	Favorites(ctx context.Context, userID string) ([]types.Style, error)
	ToggleFavorite(ctx context.Context, userID, styleID string) (types.FavoriteToggle, error)
}

// FavoritesHandler handles /api/users/favorites requests.
type FavoritesHandler struct {
	deps FavoriteDependencies
}

// NewFavoritesHandler creates a new favorites handler.
func NewFavoritesHandler(deps FavoriteDependencies) *FavoritesHandler {
	return &FavoritesHandler{deps: deps}
}

// HandleList handles GET /api/users/favorites.
func (h *FavoritesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	styles, err := h.deps.Favorites(r.Context(), user)
	if err != nil {
		writeServiceError(r.Context(), w, "api.list_favorites", err)
		return
	}
	writeJSON(w, http.StatusOK, styles)
}

// HandleToggle handles PUT /api/users/favorites/{styleId}.
func (h *FavoritesHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	res, err := h.deps.ToggleFavorite(r.Context(), user, r.PathValue("styleId"))
	if err != nil {
		writeServiceError(r.Context(), w, "api.toggle_favorite", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
