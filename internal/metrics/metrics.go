package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cache lookups by result: hit | joined | miss.
	CacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lyrics_cache_requests_total",
			Help: "Lyrics requests by cache result.",
		},
		[]string{"result"},
	)

	InflightFetches = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lyrics_inflight_fetches",
			Help: "Lyrics fetches currently in flight.",
		},
	)

	// Provider calls by outcome: found | not_found | error.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lyrics_provider_requests_total",
			Help: "Upstream provider calls by outcome.",
		},
		[]string{"provider", "outcome"},
	)

	ProviderLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lyrics_provider_latency_seconds",
			Help:    "Upstream provider call latency in seconds, retries included.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider"},
	)

	// Resolutions by outcome: found | not_found.
	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lyrics_resolutions_total",
			Help: "Fallback resolutions by outcome.",
		},
		[]string{"outcome"},
	)

	// Secondary store calls: op get|set, result hit|miss|ok|error.
	StoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lyrics_store_requests_total",
			Help: "Secondary document store calls.",
		},
		[]string{"backend", "op", "result"},
	)

	// Histogram: gateway HTTP latency in seconds.
	GatewayLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_latency_seconds",
			Help:    "HTTP request latency for the gateway in seconds.",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"path", "method", "status_code"},
	)
)

// Register is called once in main() to register metrics.
func Register() {
	prometheus.MustRegister(
		CacheRequestsTotal,
		InflightFetches,
		ProviderRequestsTotal,
		ProviderLatencySeconds,
		ResolutionsTotal,
		StoreRequestsTotal,
		GatewayLatencySeconds,
	)
}

// Handler exposes the /metrics endpoint for Prometheus to scrape.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware measures gateway latency for each HTTP request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rec, r)

		GatewayLatencySeconds.
			WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rec.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}
