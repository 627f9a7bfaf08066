package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/architex/internal/adapters/http/api"
	"github.com/okian/architex/internal/adapters/http/site"
	"github.com/okian/architex/internal/adapters/http/swagger"
	app "github.com/okian/architex/internal/app"
	"github.com/okian/architex/internal/config"
	"github.com/okian/architex/internal/domain/recommend"
	"github.com/okian/architex/internal/seed"
	"github.com/okian/architex/pkg/logger"
	"github.com/okian/architex/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// We collect our own system metrics on a custom registry.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	initMetrics(cfg)

	catalog, err := loadSeed(ctx, cfg)
	if err != nil {
		loggerInstance.Error(ctx, "failed to load seed catalog", logger.Error(err))
		os.Exit(1)
	}

	svc := newService(cfg, catalog, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// initMetrics rebuilds the metrics registry with the configured names,
// buckets and labels. It must run before any handler captures the registry.
func initMetrics(cfg *config.Config) {
	metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsLatencyBuckets),
		metrics.WithCustomLabels(cfg.MetricsLabels),
	)
}

// loadSeed returns the catalog named by seed_file, the built-in catalog when
// seed_default is set, or nil.
func loadSeed(ctx context.Context, cfg *config.Config) (*seed.Catalog, error) {
	switch {
	case cfg.SeedFile != "":
		return seed.Load(ctx, cfg.SeedFile)
	case cfg.SeedDefault:
		return seed.Default(ctx)
	default:
		return nil, nil
	}
}

func newService(cfg *config.Config, catalog *seed.Catalog, log logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(log),
		app.WithRecommendationLimits(cfg.DefaultRecommendationLimit, cfg.MaxRecommendationLimit),
		app.WithRankerOptions(
			recommend.WithPeriodWeight(cfg.PeriodWeight),
			recommend.WithCharacteristicWeight(cfg.CharacteristicWeight),
			recommend.WithProximityDecay(cfg.ProximityDecay),
		),
		app.WithSeed(catalog),
	)
}

// newHandler registers every route and wraps the mux with CORS.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	mux := http.NewServeMux()

	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, svc.DefaultLimit(), svc.MaxLimit()).Register(ctx, mux)

	return api.CORS(cfg.CORSAllowedOrigins)(mux)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
