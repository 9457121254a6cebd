// Package router sets up all HTTP routes and middleware chains for the
// folio server. It organizes routes into the JSON API and the public site.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"folio/internal/handlers"
	"folio/internal/middleware"
)

// Options carries the handler groups and optional infrastructure for New.
type Options struct {
	Public *handlers.Public
	API    *handlers.API

	// Static is served at /static/. Nil disables static files.
	Static fs.FS

	// Limiter rate-limits the API per client IP. Nil disables limiting.
	Limiter    middleware.Limiter
	RateWindow time.Duration

	// CORSOrigins lists origins allowed to call the API; empty means any.
	CORSOrigins []string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(opts.Static))))
	}

	// JSON API: CORS for browsers on other origins, rate limited when a
	// limiter is configured.
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(corsOptions(opts.CORSOrigins)))
		if opts.Limiter != nil {
			r.Use(middleware.RateLimit(opts.Limiter, opts.RateWindow))
		}

		r.Get("/verticals", opts.API.Verticals)
		r.Route("/{vertical}", func(r chi.Router) {
			r.Get("/categories", opts.API.Categories)
			r.Get("/categories/all", opts.API.AllCategories)
			r.Get("/items", opts.API.Items)
		})
		r.NotFound(opts.API.NotFound)
	})

	// Public site. Static segments take precedence over parameters, so
	// /{vertical}/categories and /{vertical}/category/{slug} are matched
	// before the layout-dependent /{vertical}/{slug}.
	r.Get("/", opts.Public.Home)
	r.Route("/{vertical}", func(r chi.Router) {
		r.Get("/", opts.Public.Listing)
		r.Get("/categories", opts.Public.Listing)
		r.Get("/category/{slug}", opts.Public.CategoryDetail)
		r.Get("/{slug}", opts.Public.Entry)
		r.Get("/{categorySlug}/{slug}", opts.Public.NestedItem)
	})
	r.NotFound(opts.Public.NotFound)

	return r
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
