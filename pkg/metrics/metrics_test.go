package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the service namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "architex")
				So(manager.subsystem, ShouldEqual, "service")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.catalogStyles.Set(3)

			Convey("Then metrics are registered under the custom names with const labels", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, mf := range families {
					if mf.GetName() != "test_namespace_test_subsystem_catalog_styles" {
						continue
					}
					found = true
					So(mf.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 3.0)
					So(mf.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					So(mf.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty option values are given", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "architex")
				So(manager.subsystem, ShouldEqual, "service")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.customLabels, ShouldNotBeNil)
			})
		})

		Convey("When registering twice on the same registry", func() {
			registry := prometheus.NewRegistry()
			_ = NewManager(WithPrometheusRegistry(registry))

			Convey("Then promauto panics on the duplicate", func() {
				So(func() { _ = NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording recommendation metrics", func() {
			before := testutil.ToFloat64(globalManager.recommendationsServed.WithLabelValues("time_based"))
			RecordRecommendationServed("time_based")
			RecordRecommendationServed("time_based")

			Convey("Then the served counter advances", func() {
				after := testutil.ToFloat64(globalManager.recommendationsServed.WithLabelValues("time_based"))
				So(after-before, ShouldEqual, 2.0)
			})

			Convey("And latency and pool size observe without panicking", func() {
				So(func() {
					RecordRecommendationLatency(1.5)
					RecordRecommendationCandidates(12)
					RecordReplacementMiss()
					RecordRecommendationFailure()
				}, ShouldNotPanic)
			})
		})

		Convey("When adding unknown periods", func() {
			before := testutil.ToFloat64(globalManager.unknownPeriods)
			AddUnknownPeriods(3)
			AddUnknownPeriods(0)
			AddUnknownPeriods(-2)

			Convey("Then only positive amounts count", func() {
				So(testutil.ToFloat64(globalManager.unknownPeriods)-before, ShouldEqual, 3.0)
			})
		})

		Convey("When updating the catalog size", func() {
			UpdateCatalogSize(17)

			Convey("Then the gauge holds the latest value", func() {
				So(testutil.ToFloat64(globalManager.catalogStyles), ShouldEqual, 17.0)
			})
		})

		Convey("When toggling favorites", func() {
			before := testutil.ToFloat64(globalManager.favoriteToggles.WithLabelValues("removed"))
			RecordFavoriteToggle("removed")

			Convey("Then the action is counted", func() {
				So(testutil.ToFloat64(globalManager.favoriteToggles.WithLabelValues("removed"))-before, ShouldEqual, 1.0)
			})
		})

		Convey("When recording HTTP, repository, error and system metrics", func() {
			So(func() {
				RecordHTTPRequest("styles", "GET", "200")
				RecordHTTPRequestDuration("styles", "GET", "200", 4.0)
				RecordRepositoryQueryLatency(0.2)
				RecordRepositoryUpdateLatency(0.4)
				RecordErrorByComponent("repository", "not_found")
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("recommendations", "GET", "server_error")
				RecordErrorLatency("http", "server_error", 12.0)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("When gathering from the custom registry", func() {
			RecordHTTPRequest("healthz", "GET", "200")
			families, err := GetRegistry().Gather()

			Convey("Then the service metrics are exposed", func() {
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, mf := range families {
					names = append(names, mf.GetName())
				}
				So(names, ShouldContain, "architex_service_http_requests_total")
				So(names, ShouldContain, "architex_service_catalog_styles")
			})
		})
	})
}

func TestMetricsInit(t *testing.T) {
	Convey("Given the global metrics rebuilt with custom options", t, func() {
		before := GetRegistry()
		Init(
			WithNamespace("gallery"),
			WithHistogramBuckets([]float64{1, 10, 100}),
			WithCustomLabels(map[string]string{"region": "eu"}),
		)
		defer Init()

		UpdateCatalogSize(4)
		RecordRecommendationLatency(5)

		Convey("Then a fresh registry exports the renamed metrics", func() {
			So(GetRegistry() != before, ShouldBeTrue)

			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			byName := make(map[string]bool, len(families))
			for _, mf := range families {
				byName[mf.GetName()] = true
				if mf.GetName() != "gallery_service_catalog_styles" {
					continue
				}
				m := mf.GetMetric()[0]
				So(m.GetGauge().GetValue(), ShouldEqual, 4.0)
				So(m.GetLabel()[0].GetName(), ShouldEqual, "region")
				So(m.GetLabel()[0].GetValue(), ShouldEqual, "eu")
			}
			So(byName["gallery_service_catalog_styles"], ShouldBeTrue)
			So(byName["architex_service_catalog_styles"], ShouldBeFalse)
		})

		Convey("And latency histograms use the configured buckets", func() {
			So(len(globalManager.histogramBuckets), ShouldEqual, 3)
			So(testutil.CollectAndCount(globalManager.recommendationLatency), ShouldEqual, 1)
		})
	})
}
