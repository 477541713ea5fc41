package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/procurement/internal/http/document"
	"github.com/MrJamesThe3rd/procurement/internal/http/export"
	"github.com/MrJamesThe3rd/procurement/internal/http/notification"
	"github.com/MrJamesThe3rd/procurement/internal/http/purchase"
	"github.com/MrJamesThe3rd/procurement/internal/http/respond"
	"github.com/MrJamesThe3rd/procurement/internal/metrics"
)

type Options struct {
	Name        string
	Version     string
	CORSOrigins []string
	// Metrics is optional; nil disables instrumentation and /metrics.
	Metrics *metrics.Metrics
	// Ping, when set, is checked by /health.
	Ping func(ctx context.Context) error
}

type infoResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

func New(
	opts Options,
	purchasesV1 *purchase.Handler,
	notificationsV1 *notification.Handler,
	exportV1 *export.Handler,
	documentsV1 *document.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
		router.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")

		if opts.Ping != nil {
			if err := opts.Ping(r.Context()); err != nil {
				slog.Error("health check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("database unavailable"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			respond.JSON(w, http.StatusOK, infoResponse{Message: opts.Name, Version: opts.Version})
		})

		r.Route("/purchases", func(r chi.Router) {
			exportV1.Routes(r)
			documentsV1.Routes(r)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				purchasesV1.Routes(r)
			})
		})

		r.Route("/notifications", notificationsV1.Routes)
	})

	return router
}
