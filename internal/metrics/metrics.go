package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uptimeplot_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uptimeplot_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	scanDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "uptimeplot_scan_duration_seconds",
			Help:    "Duration of one full visibility computation (all station/source pairs).",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)

	pairsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uptimeplot_pairs_total",
			Help: "Station/source pairs scanned, by outcome.",
		},
		[]string{"status"},
	)

	intervalsFoundTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "uptimeplot_intervals_found_total",
			Help: "Total visibility intervals produced by completed scans.",
		},
	)

	catalogStations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "uptimeplot_catalog_stations",
			Help: "Stations in the active catalog snapshot.",
		},
	)

	catalogSources = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "uptimeplot_catalog_sources",
			Help: "Sources in the active catalog snapshot.",
		},
	)

	catalogAgeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "uptimeplot_catalog_age_seconds",
			Help: "Age of the active catalog snapshot in seconds.",
		},
	)

	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "uptimeplot_result_cache_hits_total",
			Help: "Visibility result cache hits.",
		},
	)

	cacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "uptimeplot_result_cache_misses_total",
			Help: "Visibility result cache misses.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpDurationSeconds,
		scanDurationSeconds,
		pairsTotal,
		intervalsFoundTotal,
		catalogStations,
		catalogSources,
		catalogAgeSeconds,
		cacheHitsTotal,
		cacheMissesTotal,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordScan records the duration of one aggregated visibility computation.
func RecordScan(d time.Duration) {
	scanDurationSeconds.Observe(d.Seconds())
}

// RecordPair counts one scanned pair by outcome ("ok", "error", "cancelled").
func RecordPair(status string) {
	pairsTotal.WithLabelValues(status).Inc()
}

// AddIntervals counts intervals produced by completed scans.
func AddIntervals(n int) {
	intervalsFoundTotal.Add(float64(n))
}

// SetCatalogCounts updates the catalog size gauges.
func SetCatalogCounts(stations, sources int) {
	catalogStations.Set(float64(stations))
	catalogSources.Set(float64(sources))
}

// SetCatalogAge updates the catalog age gauge.
func SetCatalogAge(seconds float64) {
	catalogAgeSeconds.Set(seconds)
}

// RecordCacheHit counts a result cache hit.
func RecordCacheHit() { cacheHitsTotal.Inc() }

// RecordCacheMiss counts a result cache miss.
func RecordCacheMiss() { cacheMissesTotal.Inc() }

// knownRoutes are the exact paths the server registers. Anything else (bots
// probing /wp-admin and friends) collapses to "other" to keep label
// cardinality bounded.
var knownRoutes = map[string]bool{
	"/":                  true,
	"/healthz":           true,
	"/readyz":            true,
	"/metrics":           true,
	"/api/v1/visibility": true,
	"/api/v1/samples":    true,
	"/api/v1/catalog":    true,
}

// normalizeRoute maps a request path to a bounded metrics label.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
