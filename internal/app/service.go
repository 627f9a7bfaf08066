// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/architex/internal/adapters/repository"
	"github.com/okian/architex/internal/domain/model"
	"github.com/okian/architex/internal/domain/recommend"
	"github.com/okian/architex/internal/domain/types"
	"github.com/okian/architex/internal/seed"
	"github.com/okian/architex/pkg/logger"
	"github.com/okian/architex/pkg/metrics"
)

// Store is the persistence the service needs: the style catalog and the
// per-user favorites.
type Store interface {
	repository.Catalog
	repository.Favorites
}

// Service implements the API dependencies for the style catalog and its
// recommendations.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  Store
	ranker *recommend.Ranker[model.Style]

	// Configuration
	rankerOpts   []recommend.Option
	defaultLimit int
	maxLimit     int
	seedCatalog  *seed.Catalog

	// State
	started   bool
	ownsStore bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects the catalog and favorites store. Without it Start
// creates an in-memory store and closes it on Stop.
func WithStore(store Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRankerOptions passes weights and a parser through to the ranker.
func WithRankerOptions(opts ...recommend.Option) Option {
	return func(s *Service) {
		s.rankerOpts = append(s.rankerOpts, opts...)
	}
}

// WithRecommendationLimits sets the default and maximum number of
// recommendations per request.
func WithRecommendationLimits(defaultLimit, maxLimit int) Option {
	return func(s *Service) {
		if defaultLimit > 0 && maxLimit >= defaultLimit {
			s.defaultLimit = defaultLimit
			s.maxLimit = maxLimit
		}
	}
}

// WithSeed applies the catalog to the store during Start.
func WithSeed(c *seed.Catalog) Option {
	return func(s *Service) {
		s.seedCatalog = c
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultLimit: recommend.DefaultLimit,
		maxLimit:     50,
		logger:       nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the store and ranker and applies the seed catalog.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting architex service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore(ctx)
		s.ownsStore = true
		s.logger.Info(ctx, "using in-memory store")
	}
	s.ranker = recommend.New[model.Style](s.rankerOpts...)

	if s.seedCatalog != nil {
		res, err := seed.Apply(ctx, s.store, s.seedCatalog)
		if err != nil {
			s.releaseStore()
			return fmt.Errorf("seed catalog: %w", err)
		}
		s.logger.Info(ctx, "seed applied",
			logger.Int("created", res.Created),
			logger.Int("skipped", res.Skipped),
		)
	}

	s.started = true
	metrics.UpdateCatalogSize(s.store.Count(ctx))
	s.logger.Info(ctx, "architex service started",
		logger.Int("styles", s.store.Count(ctx)),
		logger.Int("defaultLimit", s.defaultLimit),
		logger.Int("maxLimit", s.maxLimit),
	)

	return nil
}

// Stop releases the store if the service created it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping architex service...")

	s.releaseStore()
	s.started = false
	s.logger.Info(context.Background(), "architex service stopped")
}

// releaseStore closes and forgets a store the service created. Callers hold mu.
func (s *Service) releaseStore() {
	if !s.ownsStore {
		return
	}
	if closer, ok := s.store.(interface{ Close() }); ok {
		closer.Close()
	}
	s.store = nil
	s.ownsStore = false
}

// DefaultLimit is the number of recommendations returned when the caller
// does not ask for a specific count.
func (s *Service) DefaultLimit() int { return s.defaultLimit }

// MaxLimit caps the number of recommendations per request.
func (s *Service) MaxLimit() int { return s.maxLimit }

func (s *Service) components() (Store, *recommend.Ranker[model.Style], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.store, s.ranker, nil
}

// Recommendations ranks the catalog against the user's favorites and returns
// up to limit styles, best first. Styles in excludeIDs are skipped.
func (s *Service) Recommendations(ctx context.Context, userID string, limit int, excludeIDs []string) ([]types.Recommendation, error) {
	start := time.Now()

	res, err := s.rank(ctx, userID, limit, excludeIDs)
	if err != nil {
		return nil, err
	}

	metrics.RecordRecommendationServed("time_based")
	metrics.RecordRecommendationLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	s.logger.Debug(ctx, "recommendations ranked",
		logger.String("user", userID),
		logger.Int("limit", limit),
		logger.Int("candidates", res.Candidates),
		logger.Int("returned", len(res.Items)),
	)

	out := make([]types.Recommendation, len(res.Items))
	for i, it := range res.Items {
		out[i] = types.Recommendation{Style: types.FromModel(it.Item), Score: it.Score}
	}
	return out, nil
}

// Replacement returns the best style not in currentIDs, for swapping out one
// recommendation the user dismissed. ErrNoRecommendation means nothing is left.
func (s *Service) Replacement(ctx context.Context, userID string, currentIDs []string) (types.Recommendation, error) {
	start := time.Now()

	res, err := s.rank(ctx, userID, 1, currentIDs)
	if err != nil {
		return types.Recommendation{}, err
	}
	metrics.RecordRecommendationLatency(float64(time.Since(start).Nanoseconds()) / 1e6)

	if len(res.Items) == 0 {
		metrics.RecordReplacementMiss()
		return types.Recommendation{}, ErrNoRecommendation
	}

	metrics.RecordRecommendationServed("replacement")
	best := res.Items[0]
	return types.Recommendation{Style: types.FromModel(best.Item), Score: best.Score}, nil
}

func (s *Service) rank(ctx context.Context, userID string, limit int, excludeIDs []string) (recommend.Result[model.Style], error) {
	if strings.TrimSpace(userID) == "" {
		return recommend.Result[model.Style]{}, ErrUnauthenticated
	}
	store, ranker, err := s.components()
	if err != nil {
		return recommend.Result[model.Style]{}, err
	}

	favorites, err := store.Favorites(ctx, userID)
	if err != nil {
		metrics.RecordRecommendationFailure()
		return recommend.Result[model.Style]{}, fmt.Errorf("%w: favorites: %w", ErrFetch, err)
	}
	pool, err := store.All(ctx)
	if err != nil {
		metrics.RecordRecommendationFailure()
		return recommend.Result[model.Style]{}, fmt.Errorf("%w: catalog: %w", ErrFetch, err)
	}

	res := ranker.Rank(favorites, pool, limit, excludeIDs)
	metrics.RecordRecommendationCandidates(res.Candidates)
	if res.UnknownPeriods > 0 {
		metrics.AddUnknownPeriods(res.UnknownPeriods)
		s.logger.Debug(ctx, "unparseable periods while ranking", logger.Int("count", res.UnknownPeriods))
	}
	return res, nil
}

// ListStyles returns every style ordered by name.
func (s *Service) ListStyles(ctx context.Context) ([]types.Style, error) {
	store, _, err := s.components()
	if err != nil {
		return nil, err
	}
	styles, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	return types.FromModels(styles), nil
}

// SearchStyles matches keyword against name, description and characteristics.
func (s *Service) SearchStyles(ctx context.Context, keyword string) ([]types.Style, error) {
	store, _, err := s.components()
	if err != nil {
		return nil, err
	}
	styles, err := store.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return types.FromModels(styles), nil
}

// GetStyle returns one style by id.
func (s *Service) GetStyle(ctx context.Context, id string) (types.Style, error) {
	store, _, err := s.components()
	if err != nil {
		return types.Style{}, err
	}
	style, err := store.Get(ctx, id)
	if err != nil {
		return types.Style{}, err
	}
	return types.FromModel(style), nil
}

// CreateStyle validates and stores a new style owned by userID.
func (s *Service) CreateStyle(ctx context.Context, userID string, in types.StyleInput) (types.Style, error) {
	if strings.TrimSpace(userID) == "" {
		return types.Style{}, ErrUnauthenticated
	}
	store, _, err := s.components()
	if err != nil {
		return types.Style{}, err
	}

	style := in.ToModel()
	style.CreatedBy = userID
	if err := style.Validate(); err != nil {
		return types.Style{}, err
	}

	created, err := store.Create(ctx, style)
	if err != nil {
		return types.Style{}, err
	}
	s.logger.Info(ctx, "style created",
		logger.String("id", created.ID),
		logger.String("name", created.Name),
		logger.String("user", userID),
	)
	return types.FromModel(created), nil
}

// UpdateStyle applies patch to a style owned by userID.
func (s *Service) UpdateStyle(ctx context.Context, userID, id string, patch types.StylePatch) (types.Style, error) {
	if strings.TrimSpace(userID) == "" {
		return types.Style{}, ErrUnauthenticated
	}
	store, _, err := s.components()
	if err != nil {
		return types.Style{}, err
	}

	updated, err := store.Update(ctx, id, userID, func(style *model.Style) error {
		patch.Apply(style)
		return style.Validate()
	})
	if err != nil {
		return types.Style{}, err
	}
	return types.FromModel(updated), nil
}

// DeleteStyle removes a style owned by userID.
func (s *Service) DeleteStyle(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrUnauthenticated
	}
	store, _, err := s.components()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info(ctx, "style deleted", logger.String("id", id), logger.String("user", userID))
	return nil
}

// Favorites returns the user's favorite styles in the order they were added.
func (s *Service) Favorites(ctx context.Context, userID string) ([]types.Style, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}
	store, _, err := s.components()
	if err != nil {
		return nil, err
	}
	styles, err := store.Favorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	return types.FromModels(styles), nil
}

// ToggleFavorite adds or removes a style from the user's favorites.
func (s *Service) ToggleFavorite(ctx context.Context, userID, styleID string) (types.FavoriteToggle, error) {
	if strings.TrimSpace(userID) == "" {
		return types.FavoriteToggle{}, ErrUnauthenticated
	}
	store, _, err := s.components()
	if err != nil {
		return types.FavoriteToggle{}, err
	}

	added, ids, err := store.ToggleFavorite(ctx, userID, styleID)
	if err != nil {
		return types.FavoriteToggle{}, err
	}

	action := "removed"
	if added {
		action = "added"
	}
	if ids == nil {
		ids = []string{}
	}
	return types.FavoriteToggle{Success: true, Action: action, Favorites: ids}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"defaultLimit": s.defaultLimit,
		"maxLimit":     s.maxLimit,
	}

	if s.started {
		count := s.store.Count(context.Background())
		stats["totalStyles"] = count
		metrics.UpdateCatalogSize(count)
	}

	return stats
}
