// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var (
	metricName = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)
	labelName  = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DefaultRecommendationLimit is used when GET /api/styles/recommendations has no limit.
	DefaultRecommendationLimit int `koanf:"default_recommendation_limit"`

	// MaxRecommendationLimit caps GET /api/styles/recommendations?limit.
	MaxRecommendationLimit int `koanf:"max_recommendation_limit"`

	// PeriodWeight, CharacteristicWeight and ProximityDecay tune the ranker.
	PeriodWeight         float64 `koanf:"period_weight"`
	CharacteristicWeight float64 `koanf:"characteristic_weight"`
	ProximityDecay       float64 `koanf:"proximity_decay"`

	// SeedFile points to a YAML style catalog loaded at startup.
	SeedFile string `koanf:"seed_file"`

	// SeedDefault loads the built-in catalog when SeedFile is empty.
	SeedDefault bool `koanf:"seed_default"`

	// CORSAllowedOrigins lists origins allowed by the CORS middleware.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// MetricsNamespace and MetricsSubsystem prefix every Prometheus metric
	// name: <namespace>_<subsystem>_<metric>.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLatencyBuckets overrides the latency histogram buckets (ms).
	MetricsLatencyBuckets []float64 `koanf:"metrics_latency_buckets"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:                   "info",
		LogFormat:                  "text",
		Addr:                       ":9080",
		DefaultRecommendationLimit: 3,
		MaxRecommendationLimit:     50,
		PeriodWeight:               3.0,
		CharacteristicWeight:       0.5,
		ProximityDecay:             0.2,
		SeedDefault:                true,
		CORSAllowedOrigins:         []string{"*"},
		MetricsNamespace:           "architex",
		MetricsSubsystem:           "service",
	}
}

// Validate checks the config for values the service cannot start with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DefaultRecommendationLimit < 1:
		return fmt.Errorf("%w: default_recommendation_limit must be positive", ErrInvalidConfig)
	case c.MaxRecommendationLimit < c.DefaultRecommendationLimit:
		return fmt.Errorf("%w: max_recommendation_limit must be >= default_recommendation_limit", ErrInvalidConfig)
	case c.PeriodWeight < 0 || c.CharacteristicWeight < 0 || c.ProximityDecay < 0:
		return fmt.Errorf("%w: ranker weights must not be negative", ErrInvalidConfig)
	}

	if !metricName.MatchString(c.MetricsNamespace) {
		return fmt.Errorf("%w: metrics_namespace %q is not a valid metric name", ErrInvalidConfig, c.MetricsNamespace)
	}
	if c.MetricsSubsystem != "" && !metricName.MatchString(c.MetricsSubsystem) {
		return fmt.Errorf("%w: metrics_subsystem %q is not a valid metric name", ErrInvalidConfig, c.MetricsSubsystem)
	}
	for i := 1; i < len(c.MetricsLatencyBuckets); i++ {
		if c.MetricsLatencyBuckets[i] <= c.MetricsLatencyBuckets[i-1] {
			return fmt.Errorf("%w: metrics_latency_buckets must be strictly increasing", ErrInvalidConfig)
		}
	}
	for name := range c.MetricsLabels {
		if !labelName.MatchString(name) {
			return fmt.Errorf("%w: metrics_labels key %q is not a valid label name", ErrInvalidConfig, name)
		}
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
