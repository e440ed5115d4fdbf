package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/meridian-market/boardroom/internal/api/middleware"
	"github.com/meridian-market/boardroom/internal/handlers"
)

// NewRouter creates and configures the sidecar HTTP router.
func NewRouter(logger zerolog.Logger, h *handlers.Handler) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS - the UI talks to the sidecar from the app origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	// Queue and replay controls for UI badges
	r.Get("/queue", h.ListQueue)
	r.Get("/queue/count", h.QueueCount)
	r.Post("/queue", h.EnqueueMessage)
	r.Delete("/queue", h.ClearQueue)
	r.Delete("/queue/{id}", h.DequeueMessage)
	r.Post("/replay", h.TriggerReplay)

	// On-device intelligence
	r.Post("/preview", h.PreviewMessage)
	r.Post("/context/preload", h.PreloadContext)
	r.Delete("/context", h.ClearContext)

	return r
}
