// Package repository defines the catalog and favorites stores that feed the
// recommendation ranker.
package repository

import (
	"context"

	"github.com/okian/architex/internal/domain/model"
)

// Catalog provides read/write access to architectural styles.
type Catalog interface {
	// Create stores a new style, assigning ID and CreatedAt.
	// Returns ErrDuplicateName if a style with the same name exists.
	Create(ctx context.Context, s model.Style) (model.Style, error)

	// Get returns a style by id or ErrNotFound.
	Get(ctx context.Context, id string) (model.Style, error)

	// Update applies mutate to the stored style under the store lock.
	// Only the creator may update; others get ErrForbidden.
	Update(ctx context.Context, id, userID string, mutate func(*model.Style) error) (model.Style, error)

	// Delete removes a style and drops it from every user's favorites.
	Delete(ctx context.Context, id, userID string) error

	// List returns all styles ordered by name.
	List(ctx context.Context) ([]model.Style, error)

	// Search matches keyword case-insensitively against name, description
	// and characteristics.
	Search(ctx context.Context, keyword string) ([]model.Style, error)

	// All returns every style in insertion order. This is the candidate pool
	// handed to the ranker.
	All(ctx context.Context) ([]model.Style, error)

	// Count returns the number of styles in the catalog.
	Count(ctx context.Context) int
}

// Favorites tracks which styles each user has marked as liked.
type Favorites interface {
	// Favorites returns the user's favorite styles in the order they were added.
	Favorites(ctx context.Context, userID string) ([]model.Style, error)

	// ToggleFavorite adds styleID to the user's favorites or removes it if
	// already present. It reports whether the style was added and the
	// resulting favorite ids.
	ToggleFavorite(ctx context.Context, userID, styleID string) (added bool, ids []string, err error)
}
