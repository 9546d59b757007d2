package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_proxy_requests_total",
			Help: "Total requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_proxy_request_duration_seconds",
			Help:    "Request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_proxy_cache_lookups_total",
			Help: "Response cache lookups by result (hit, miss).",
		},
		[]string{"result"},
	)
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_proxy_upstream_requests_total",
			Help: "Calls to third-party APIs by provider, operation and outcome.",
		},
		[]string{"provider", "operation", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(RequestCounter, RequestDuration, CacheLookups, UpstreamRequests)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveCache records a cache lookup.
func ObserveCache(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}

// ObserveUpstream records the outcome of a third-party call: "ok", "status_<code>" or "error".
func ObserveUpstream(provider, operation string, status int, err error) {
	outcome := "ok"
	switch {
	case err != nil && status == 0:
		outcome = "error"
	case status < 200 || status > 299:
		outcome = "status_" + strconv.Itoa(status)
	}
	UpstreamRequests.WithLabelValues(provider, operation, outcome).Inc()
}

// MetricsMiddleware counts requests per chi route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		RequestCounter.WithLabelValues(route, r.Method, strconv.Itoa(rw.Status)).Inc()
		RequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// StatusRecorder captures the status code written by a handler.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *StatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}
