package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/architex/internal/adapters/http/api"
	app "github.com/okian/architex/internal/app"
	"github.com/okian/architex/internal/config"
	"github.com/okian/architex/pkg/logger"
	"github.com/okian/architex/pkg/metrics"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			_ = os.Setenv("ARCHITEX_ADDR", ":8080")
			_ = os.Setenv("ARCHITEX_DEFAULT_RECOMMENDATION_LIMIT", "5")
			_ = os.Setenv("ARCHITEX_SEED_DEFAULT", "false")
			defer func() {
				_ = os.Unsetenv("ARCHITEX_ADDR")
				_ = os.Unsetenv("ARCHITEX_DEFAULT_RECOMMENDATION_LIMIT")
				_ = os.Unsetenv("ARCHITEX_SEED_DEFAULT")
			}()

			convey.Convey("Then it is loaded and drives the seed choice", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DefaultRecommendationLimit, convey.ShouldEqual, 5)

				catalog, err := loadSeed(ctx, cfg)
				convey.So(err, convey.ShouldBeNil)
				convey.So(catalog, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the address is blank", func() {
			_ = os.Setenv("ARCHITEX_ADDR", " ")
			defer func() { _ = os.Unsetenv("ARCHITEX_ADDR") }()

			convey.Convey("Then configuration loading fails", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the seed file is missing", func() {
			cfg := config.New(context.Background())
			cfg.SeedFile = "/does/not/exist.yaml"

			convey.Convey("Then loading the seed fails", func() {
				_, err := loadSeed(context.Background(), cfg)
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainWiring(t *testing.T) {
	convey.Convey("Given a service built from the default config", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		initMetrics(cfg)

		catalog, err := loadSeed(ctx, cfg)
		convey.So(err, convey.ShouldBeNil)
		convey.So(len(catalog.Styles), convey.ShouldEqual, 16)

		svc := newService(cfg, catalog, logger.Get())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		handler := newHandler(ctx, cfg, svc)

		get := func(path, user string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("GET", path, http.NoBody)
			if user != "" {
				req.Header.Set(api.UserHeader, user)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			return w
		}

		convey.Convey("Then the seeded catalog is served", func() {
			w := get("/api/styles", "")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "International Style")
		})

		convey.Convey("Then the demo user gets recommendations", func() {
			w := get("/api/styles/recommendations", "demo-user")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "Rococo")
		})

		convey.Convey("Then the docs and landing page are mounted", func() {
			convey.So(get("/", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml", "").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then metrics are exposed", func() {
			updateSystemMetrics()
			w := get("/healthz", "")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(strings.Contains(w.Body.String(), "architex_service_system_goroutine_count"), convey.ShouldBeTrue)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When the system metrics updater's context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.Convey("Then it returns without panicking", func() {
				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When creating a metrics manager on its own registry", func() {
			manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
			convey.So(manager, convey.ShouldNotBeNil)
		})

		convey.Convey("When reading stats from a service that never started", func() {
			stats := app.New().GetStats()
			convey.So(stats["started"], convey.ShouldEqual, false)
		})
	})
}

func TestMainMetricsSettings(t *testing.T) {
	convey.Convey("Given a config with a custom metrics namespace and labels", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.MetricsNamespace = "gallery"
		cfg.MetricsLabels = map[string]string{"region": "eu"}

		initMetrics(cfg)
		defer initMetrics(config.New(ctx))

		handler := newHandler(ctx, cfg, app.New())
		updateSystemMetrics()

		req := httptest.NewRequest("GET", "/healthz", http.NoBody)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		convey.Convey("Then /healthz exports the renamed, labelled metrics", func() {
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `gallery_service_system_goroutine_count{region="eu"}`)
			convey.So(w.Body.String(), convey.ShouldNotContainSubstring, "architex_service_")
		})
	})
}
