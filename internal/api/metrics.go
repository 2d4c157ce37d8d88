package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	generations    *prometheus.CounterVec
	generatedWords prometheus.Counter
	cacheLookups   *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordwalk_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wordwalk_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordwalk_generations_total",
				Help: "Total number of paragraph generations by result kind",
			},
			[]string{"result"},
		),
		generatedWords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wordwalk_generated_words_total",
			Help: "Total number of words generated",
		}),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordwalk_cache_lookups_total",
				Help: "Paragraph cache lookups by result",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.generations,
		m.generatedWords,
		m.cacheLookups,
		collectors.NewGoCollector(),
	)
	return m
}

// instrument records the count and duration of every request under its
// route pattern, so path parameters do not explode the label set.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *metrics) observeGeneration(kind string, words int) {
	if kind == "" {
		kind = "ok"
	}
	m.generations.WithLabelValues(kind).Inc()
	m.generatedWords.Add(float64(words))
}
