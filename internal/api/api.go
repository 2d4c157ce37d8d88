// Package api exposes stored grammars, generation and template rendering over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/CTAG07/wordwalk/internal/cache"
	"github.com/CTAG07/wordwalk/pkg/store"
	"github.com/CTAG07/wordwalk/pkg/templating"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// DefaultMaxLength caps the length of a single generation request.
const DefaultMaxLength = 10000

// Config holds the HTTP-facing settings of the API.
type Config struct {
	AllowedOrigins []string
	MaxLength      int
	RequestTimeout time.Duration
}

// API holds the dependencies for every handler.
type API struct {
	store   *store.Store
	tm      *templating.TemplateManager
	cache   cache.Cache
	logger  *slog.Logger
	config  Config
	metrics *metrics
}

// New creates the API. tm may be nil, which disables /api/render; a nil
// cache disables caching.
func New(st *store.Store, tm *templating.TemplateManager, c cache.Cache, logger *slog.Logger, config Config) *API {
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if config.MaxLength <= 0 {
		config.MaxLength = DefaultMaxLength
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = []string{"*"}
	}
	return &API{
		store:   st,
		tm:      tm,
		cache:   c,
		logger:  logger,
		config:  config,
		metrics: newMetrics(),
	}
}

// Registry returns the private registry holding the API's metrics.
func (a *API) Registry() *prometheus.Registry {
	return a.metrics.registry
}

// Handler builds the router with CORS and metrics middleware applied.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if a.config.RequestTimeout > 0 {
		r.Use(middleware.Timeout(a.config.RequestTimeout))
	}
	r.Use(a.metrics.instrument)

	r.Get("/health", a.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(a.metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", a.handleStats)
		r.Post("/import", a.handleImport)
		r.Post("/render", a.handleRender)

		r.Route("/grammars", func(r chi.Router) {
			r.Get("/", a.handleListGrammars)
			r.Post("/", a.handleCreateGrammar)

			r.Route("/{name}", func(r chi.Router) {
				r.Delete("/", a.handleDeleteGrammar)
				r.Get("/export", a.handleExport)
				r.Get("/validate", a.handleValidate)
				r.Post("/words", a.handleAddWords)
				r.Put("/followers/{type}", a.handleSetFollowers)
				r.Post("/generate", a.handleGenerate)
				r.Get("/stream", a.handleStream)
			})
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins: a.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
