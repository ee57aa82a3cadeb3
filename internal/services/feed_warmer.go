package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"trendboard/internal/models"
)

// FeedWarmer keeps the default feeds of selected regions fresh in the cache, on start and
// then every interval.
type FeedWarmer struct {
	feed       Feed
	apiKey     string
	regions    []string
	order      models.OrderMode
	maxResults int
	interval   time.Duration
	logger     zerolog.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type WarmerConfig struct {
	APIKey     string
	Regions    []string
	Order      models.OrderMode
	MaxResults int
	Interval   time.Duration
}

func NewFeedWarmer(feed Feed, cfg WarmerConfig, logger zerolog.Logger) *FeedWarmer {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultFeedTTL
	}
	return &FeedWarmer{
		feed:       feed,
		apiKey:     cfg.APIKey,
		regions:    cfg.Regions,
		order:      cfg.Order,
		maxResults: cfg.MaxResults,
		interval:   cfg.Interval,
		logger:     logger,
		stopChan:   make(chan struct{}),
	}
}

// Start launches the warm loop. It is a no-op without regions.
func (w *FeedWarmer) Start() bool {
	if w.feed == nil || len(w.regions) == 0 {
		return false
	}
	w.wg.Add(1)
	go w.loop()
	w.logger.Info().Strs("regions", w.regions).Dur("interval", w.interval).Msg("feed warmer started")
	return true
}

// Stop ends the loop and waits for an in-progress warm pass to finish.
func (w *FeedWarmer) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
	w.wg.Wait()
}

func (w *FeedWarmer) loop() {
	defer w.wg.Done()

	// Run on startup as well as by interval.
	w.warm(context.Background())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.warm(context.Background())
		}
	}
}

func (w *FeedWarmer) warm(ctx context.Context) {
	for _, region := range w.regions {
		select {
		case <-w.stopChan:
			return
		default:
		}

		res := w.feed.Fetch(ctx, models.FeedParams{
			APIKey:     w.apiKey,
			MaxResults: w.maxResults,
			RegionCode: region,
			Order:      w.order,
		})
		if !res.OK() {
			w.logger.Warn().Err(res.Problem).Str("region", region).Msg("feed warm-up failed")
			continue
		}
		w.logger.Debug().Str("region", region).Int("videos", len(res.Videos)).Msg("feed warmed")
	}
}
