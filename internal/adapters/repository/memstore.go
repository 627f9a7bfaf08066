package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/architex/internal/domain/model"
	"github.com/okian/architex/pkg/metrics"
)

// Constants for store configuration.
const (
	defaultMetricsUpdateInterval = 10 * time.Second
)

// MemoryStore is an in-memory Catalog and Favorites implementation.
// Returned styles are deep copies; callers may mutate them freely.
type MemoryStore struct {
	mu        sync.RWMutex
	styles    map[string]model.Style
	byName    map[string]string // name -> id
	order     []string          // insertion order of ids
	favorites map[string][]string

	now   func() time.Time
	newID func() string

	metricsUpdateInterval time.Duration
	stopChan              chan struct{}
	wg                    sync.WaitGroup
	closeOnce             sync.Once
}

var (
	_ Catalog   = (*MemoryStore)(nil)
	_ Favorites = (*MemoryStore)(nil)
)

// NewMemoryStore creates a store and starts its background metrics updater.
// Call Close to stop it.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		styles:                make(map[string]model.Style),
		byName:                make(map[string]string),
		favorites:             make(map[string][]string),
		now:                   time.Now,
		newID:                 uuid.NewString,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() {
	s.closeOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateCatalogSize(s.Count(ctx))
			}
		}
	}()
}

// Create implements Catalog.
func (s *MemoryStore) Create(ctx context.Context, style model.Style) (model.Style, error) {
	start := time.Now()
	defer recordUpdate(start)

	if err := ctx.Err(); err != nil {
		return model.Style{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[style.Name]; exists {
		return model.Style{}, ErrDuplicateName
	}

	stored := style.Clone()
	stored.ID = s.newID()
	stored.CreatedAt = s.now()

	s.styles[stored.ID] = stored
	s.byName[stored.Name] = stored.ID
	s.order = append(s.order, stored.ID)
	metrics.UpdateCatalogSize(len(s.styles))

	return stored.Clone(), nil
}

// Get implements Catalog.
func (s *MemoryStore) Get(ctx context.Context, id string) (model.Style, error) {
	start := time.Now()
	defer recordQuery(start)

	if err := ctx.Err(); err != nil {
		return model.Style{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	style, ok := s.styles[id]
	if !ok {
		return model.Style{}, ErrNotFound
	}
	return style.Clone(), nil
}

// Update implements Catalog. A rename to an existing name returns
// ErrDuplicateName and leaves the style unchanged.
func (s *MemoryStore) Update(ctx context.Context, id, userID string, mutate func(*model.Style) error) (model.Style, error) {
	start := time.Now()
	defer recordUpdate(start)

	if err := ctx.Err(); err != nil {
		return model.Style{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.styles[id]
	if !ok {
		return model.Style{}, ErrNotFound
	}
	if current.CreatedBy != userID {
		return model.Style{}, ErrForbidden
	}

	next := current.Clone()
	if err := mutate(&next); err != nil {
		return model.Style{}, err
	}
	// identity fields are owned by the store
	next.ID = current.ID
	next.CreatedBy = current.CreatedBy
	next.CreatedAt = current.CreatedAt

	if next.Name != current.Name {
		if _, taken := s.byName[next.Name]; taken {
			return model.Style{}, ErrDuplicateName
		}
		delete(s.byName, current.Name)
		s.byName[next.Name] = id
	}

	s.styles[id] = next
	return next.Clone(), nil
}

// Delete implements Catalog.
func (s *MemoryStore) Delete(ctx context.Context, id, userID string) error {
	start := time.Now()
	defer recordUpdate(start)

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.styles[id]
	if !ok {
		return ErrNotFound
	}
	if current.CreatedBy != userID {
		return ErrForbidden
	}

	delete(s.styles, id)
	delete(s.byName, current.Name)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	for user, ids := range s.favorites {
		s.favorites[user] = slices.DeleteFunc(ids, func(v string) bool { return v == id })
	}
	metrics.UpdateCatalogSize(len(s.styles))

	return nil
}

// List implements Catalog.
func (s *MemoryStore) List(ctx context.Context) ([]model.Style, error) {
	out, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b model.Style) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

// Search implements Catalog.
func (s *MemoryStore) Search(ctx context.Context, keyword string) ([]model.Style, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(keyword))
	out := make([]model.Style, 0, len(all))
	for _, style := range all {
		if matches(style, needle) {
			out = append(out, style)
		}
	}
	return out, nil
}

func matches(style model.Style, needle string) bool {
	if strings.Contains(strings.ToLower(style.Name), needle) ||
		strings.Contains(strings.ToLower(style.Description), needle) {
		return true
	}
	for _, c := range style.Characteristics {
		if strings.Contains(strings.ToLower(c), needle) {
			return true
		}
	}
	return false
}

// All implements Catalog.
func (s *MemoryStore) All(ctx context.Context) ([]model.Style, error) {
	start := time.Now()
	defer recordQuery(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Style, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.styles[id].Clone())
	}
	return out, nil
}

// Count implements Catalog.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.styles)
}

// Favorites implements Favorites.
func (s *MemoryStore) Favorites(ctx context.Context, userID string) ([]model.Style, error) {
	start := time.Now()
	defer recordQuery(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.favorites[userID]
	out := make([]model.Style, 0, len(ids))
	for _, id := range ids {
		if style, ok := s.styles[id]; ok {
			out = append(out, style.Clone())
		}
	}
	return out, nil
}

// ToggleFavorite implements Favorites. Adding a style that is not in the
// catalog returns ErrNotFound; removing one always succeeds.
func (s *MemoryStore) ToggleFavorite(ctx context.Context, userID, styleID string) (bool, []string, error) {
	start := time.Now()
	defer recordUpdate(start)

	if err := ctx.Err(); err != nil {
		return false, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.favorites[userID]
	if i := slices.Index(ids, styleID); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
		s.favorites[userID] = ids
		metrics.RecordFavoriteToggle("removed")
		return false, slices.Clone(ids), nil
	}

	if _, ok := s.styles[styleID]; !ok {
		return false, nil, ErrNotFound
	}
	ids = append(ids, styleID)
	s.favorites[userID] = ids
	metrics.RecordFavoriteToggle("added")
	return true, slices.Clone(ids), nil
}

func recordQuery(start time.Time) {
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
}

func recordUpdate(start time.Time) {
	metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
}
