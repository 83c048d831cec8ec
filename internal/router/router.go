package router

import (
	"net/http"

	"stockroom-api/internal/handler"
	"stockroom-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler          *handler.Handler
	AIHandler        *handler.AIHandler
	InventoryHandler *handler.InventoryHandler
	SessionHandler   *handler.SessionHandler
	AdminHandler     *handler.AdminHandler
	Metrics          http.Handler
	RequestObserver  middleware.RequestObserver
	AllowedOrigins   []string
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	if cfg.RequestObserver != nil {
		r.Use(middleware.Metrics(cfg.RequestObserver))
	}
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}
	if cfg.AIHandler != nil {
		r.Post("/api/ai", cfg.AIHandler.Dispatch)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Health check endpoints
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		// User selector
		if cfg.SessionHandler != nil {
			r.Get("/users", cfg.SessionHandler.Users)
			r.Get("/session", cfg.SessionHandler.Get)
			r.Put("/session", cfg.SessionHandler.Switch)
		}

		// Inventory endpoints
		if cfg.InventoryHandler != nil {
			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", cfg.InventoryHandler.List)
				r.Post("/", cfg.InventoryHandler.Create)
				r.Get("/stats", cfg.InventoryHandler.Stats)
				r.Get("/categories", cfg.InventoryHandler.Categories)
				r.Get("/export", cfg.InventoryHandler.Export)
				r.Post("/audit", cfg.InventoryHandler.Audit)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", cfg.InventoryHandler.Get)
					r.Put("/", cfg.InventoryHandler.Update)
					r.Delete("/", cfg.InventoryHandler.Delete)
					r.Post("/forecast", cfg.InventoryHandler.Forecast)
					r.Post("/suggestions/{field}", cfg.InventoryHandler.Suggest)
				})
			})
		}

		// Admin endpoints
		if cfg.AdminHandler != nil {
			r.Get("/admin/stats", cfg.AdminHandler.GetStats)
		}
	})

	return r
}
