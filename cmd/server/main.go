package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trendboard/internal/cache"
	"trendboard/internal/config"
	"trendboard/internal/handlers"
	"trendboard/internal/logging"
	"trendboard/internal/models"
	"trendboard/internal/router"
	"trendboard/internal/services"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "trendboard",
		Short:        "Trending video dashboard",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), config.Load())
		},
	}
	root.AddCommand(newServeCmd(), newFetchCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), config.Load())
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logging.Configure(logging.Config{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})
	log := logging.WithComponent("server")
	log.Info().Msg("🚀 Starting trendboard...")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defaults, err := feedDefaults(cfg)
	if err != nil {
		return err
	}

	// ──── Step 1: Feed cache ────
	checks := map[string]handlers.HealthChecker{}
	var feedCache cache.Cache
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(cfg.RedisURL, "trendboard:", logging.WithComponent("cache"))
		if err != nil {
			log.Error().Err(err).Msg("✗ Redis connection failed")
			return err
		}
		defer rc.Close()
		checks["redis"] = rc
		feedCache = rc
		log.Info().Msg("✓ Redis feed cache connected")
	} else {
		mc := cache.NewMemoryCache(cfg.FeedCacheTTL)
		defer mc.Stop()
		feedCache = mc
		log.Info().Msg("✓ In-memory feed cache ready")
	}

	// ──── Step 2: Video API client ────
	fetcher, err := services.NewFeedFetcher(ctx, services.FetcherConfig{
		Endpoint: cfg.YouTubeEndpoint,
		Timeout:  cfg.YouTubeRequestTimeout,
	}, logging.WithComponent("fetcher"))
	if err != nil {
		log.Error().Err(err).Msg("✗ Video API client initialization failed")
		return err
	}
	feed := services.NewCachedFeed(fetcher, feedCache, cfg.FeedCacheTTL, logging.WithComponent("feed_cache"))

	// ──── Step 3: Cache warmer ────
	warmer := services.NewFeedWarmer(feed, services.WarmerConfig{
		APIKey:     cfg.YouTubeAPIKey,
		Regions:    cfg.WarmRegions,
		Order:      defaults.Order,
		MaxResults: defaults.MaxResults,
		Interval:   cfg.WarmInterval,
	}, logging.WithComponent("warmer"))
	if warmer.Start() {
		log.Info().Strs("regions", cfg.WarmRegions).Msg("✓ Feed warmer started")
	}

	// ──── Step 4: HTTP server ────
	r := router.New(
		handlers.NewVideoHandler(feed, feed, defaults, logging.WithComponent("api")),
		handlers.NewDashboardHandler(feed, feed, defaults, logging.WithComponent("dashboard")),
		handlers.NewHealthHandler(checks),
		router.Options{
			RateLimitPerMinute: cfg.RateLimitPerMinute,
			Logger:             logging.WithComponent("http"),
		},
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.YouTubeRequestTimeout*2 + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down...")
		warmer.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Info().Msgf("✓ trendboard ready on http://localhost:%s", cfg.Port)
	log.Info().Msgf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Server error")
		return err
	}
	return nil
}

// feedDefaults turns the configured defaults into query defaults, rejecting unusable values.
func feedDefaults(cfg *config.Config) (handlers.FeedDefaults, error) {
	p := models.FeedParams{
		APIKey:     cfg.YouTubeAPIKey,
		MaxResults: cfg.DefaultMaxResults,
		RegionCode: cfg.DefaultRegion,
		Order:      models.OrderMode(cfg.DefaultOrder),
	}
	if fields := p.Validate(); fields != nil {
		return handlers.FeedDefaults{}, fmt.Errorf("invalid feed defaults: %v", fields)
	}
	return handlers.FeedDefaults{
		APIKey:     p.APIKey,
		Region:     p.RegionCode,
		Order:      p.Order,
		MaxResults: p.MaxResults,
	}, nil
}
