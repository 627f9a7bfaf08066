package api

import (
	"context"
	"net/http"

	"github.com/okian/architex/internal/domain/types"
)

// StyleDependencies defines the catalog operations the styles routes need.
type StyleDependencies interface {
	ListStyles(ctx context.Context) ([]types.Style, error)
	SearchStyles(ctx context.Context, keyword string) ([]types.Style, error)
	GetStyle(ctx context.Context, id string) (types.Style, error)
	CreateStyle(ctx context.Context, userID string, in types.StyleInput) (types.Style, error)
	UpdateStyle(ctx context.Context, userID, id string, patch types.StylePatch) (types.Style, error)
	DeleteStyle(ctx context.Context, userID, id string) error
}

// StylesHandler handles /api/styles requests.
type StylesHandler struct {
	deps StyleDependencies
}

// NewStylesHandler creates a new styles handler.
func NewStylesHandler(deps StyleDependencies) *StylesHandler {
	return &StylesHandler{deps: deps}
}

// HandleList handles GET /api/styles.
func (h *StylesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	styles, err := h.deps.ListStyles(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, "api.list_styles", err)
		return
	}
	writeJSON(w, http.StatusOK, styles)
}

// HandleSearch handles GET /api/styles/search/{keyword}.
func (h *StylesHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	styles, err := h.deps.SearchStyles(r.Context(), r.PathValue("keyword"))
	if err != nil {
		writeServiceError(r.Context(), w, "api.search_styles", err)
		return
	}
	writeJSON(w, http.StatusOK, styles)
}

// HandleGet handles GET /api/styles/{id}.
func (h *StylesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	style, err := h.deps.GetStyle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), w, "api.get_style", err)
		return
	}
	writeJSON(w, http.StatusOK, style)
}

// HandleCreate handles POST /api/styles.
func (h *StylesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	var in types.StyleInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	style, err := h.deps.CreateStyle(r.Context(), user, in)
	if err != nil {
		writeServiceError(r.Context(), w, "api.create_style", err)
		return
	}
	writeJSON(w, http.StatusCreated, style)
}

// HandleUpdate handles PUT /api/styles/{id}. Only the creator may update.
func (h *StylesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	var patch types.StylePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	style, err := h.deps.UpdateStyle(r.Context(), user, r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(r.Context(), w, "api.update_style", err)
		return
	}
	writeJSON(w, http.StatusOK, style)
}

// HandleDelete handles DELETE /api/styles/{id}. Only the creator may delete.
func (h *StylesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.deps.DeleteStyle(r.Context(), user, r.PathValue("id")); err != nil {
		writeServiceError(r.Context(), w, "api.delete_style", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "style removed"})
}
