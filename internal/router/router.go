package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"trendboard/internal/handlers"
	"trendboard/internal/middleware"
)

type Options struct {
	// RateLimitPerMinute applies per client IP to the API and refresh routes. Zero disables it.
	RateLimitPerMinute int
	Logger             zerolog.Logger
}

func New(
	videoHandler *handlers.VideoHandler,
	dashboardHandler *handlers.DashboardHandler,
	healthHandler *handlers.HealthHandler,
	opts Options,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(opts.Logger))

	apiLimiter := middleware.RateLimit(middleware.RateLimitConfig{
		Scope:        "api",
		RequestLimit: opts.RateLimitPerMinute,
		WindowSize:   time.Minute,
	})
	// Refreshing bypasses the cache, so it gets a tighter budget.
	refreshLimiter := middleware.RateLimit(middleware.RateLimitConfig{
		Scope:        "refresh",
		RequestLimit: refreshLimit(opts.RateLimitPerMinute),
		WindowSize:   time.Minute,
	})

	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// ──── Dashboard ────
	r.Get("/", dashboardHandler.Page)
	r.With(refreshLimiter).Post("/refresh", dashboardHandler.RefreshPage)

	// ──── JSON API ────
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiLimiter)
		r.Get("/videos", videoHandler.List)
		r.Get("/options", videoHandler.Options)
		r.Get("/cache/stats", videoHandler.CacheStats)
		r.With(refreshLimiter).Post("/refresh", videoHandler.Refresh)
	})

	return r
}

func refreshLimit(perMinute int) int {
	if perMinute <= 0 {
		return 0
	}
	if limit := perMinute / 6; limit > 0 {
		return limit
	}
	return 1
}
