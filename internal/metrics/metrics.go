package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ShelterRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streetaid_shelter_requests_total",
		Help: "Total number of viewport shelter queries",
	})
	ShelterCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streetaid_shelter_cache_hits_total",
		Help: "Total shelter cache hits",
	})
	ShelterCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streetaid_shelter_cache_misses_total",
		Help: "Total shelter cache misses",
	})
	OverpassRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streetaid_overpass_requests_total",
		Help: "Total Overpass API requests",
	})
	OverpassFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streetaid_overpass_fail_total",
		Help: "Total Overpass API failures",
	})
	OverpassDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "streetaid_overpass_duration_ms",
		Help:    "Overpass call duration in milliseconds",
		Buckets: []float64{50, 100, 200, 500, 1000, 2000, 5000, 10000, 25000},
	})
	SupersededFetchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streetaid_superseded_fetches_total",
		Help: "Total viewport fetches cancelled by a newer viewport",
	})
	AlertsAnnotatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streetaid_alerts_annotated_total",
		Help: "Total alerts annotated with a nearest shelter",
	})
)

func init() {
	prometheus.MustRegister(ShelterRequestsTotal)
	prometheus.MustRegister(ShelterCacheHitsTotal)
	prometheus.MustRegister(ShelterCacheMissesTotal)
	prometheus.MustRegister(OverpassRequestsTotal)
	prometheus.MustRegister(OverpassFailTotal)
	prometheus.MustRegister(OverpassDurationMs)
	prometheus.MustRegister(SupersededFetchesTotal)
	prometheus.MustRegister(AlertsAnnotatedTotal)
}

// Handler exposes the registered metrics for Prometheus scraping.
func Handler() http.Handler { return promhttp.Handler() }
