package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"trendboard/internal/cache"
	"trendboard/internal/metrics"
	"trendboard/internal/models"
)

const DefaultFeedTTL = 5 * time.Minute

// CachedFeed serves feeds from a time-boxed cache keyed by the full parameter tuple.
// Concurrent misses for one key share a single upstream fetch. Only clean, non-empty
// results are stored, so failures are retried on the next call.
type CachedFeed struct {
	next   Feed
	cache  cache.Cache
	ttl    time.Duration
	group  singleflight.Group
	logger zerolog.Logger

	// mu orders stores against Clear; gen counts clears so a fetch that
	// started before one never stores its result after it.
	mu  sync.Mutex
	gen uint64
}

func NewCachedFeed(next Feed, c cache.Cache, ttl time.Duration, logger zerolog.Logger) *CachedFeed {
	if ttl <= 0 {
		ttl = DefaultFeedTTL
	}
	return &CachedFeed{next: next, cache: c, ttl: ttl, logger: logger}
}

func (c *CachedFeed) Fetch(ctx context.Context, params models.FeedParams) FeedResult {
	params = params.Normalize()
	key := feedCacheKey(params)

	if data, ok := c.cache.Get(key); ok {
		var videos []models.VideoRecord
		if err := json.Unmarshal(data, &videos); err == nil && len(videos) > 0 {
			metrics.FeedCacheTotal.WithLabelValues("hit").Inc()
			return FeedResult{Videos: videos}
		}
		c.logger.Warn().Str("key", key).Msg("dropping unreadable feed cache entry")
		c.cache.Delete(key)
	}
	metrics.FeedCacheTotal.WithLabelValues("miss").Inc()

	// A caller going away must not fail the others waiting on the same key.
	fetchCtx := context.WithoutCancel(ctx)
	v, _, shared := c.group.Do(key, func() (any, error) {
		gen := c.generation()
		res := c.next.Fetch(fetchCtx, params)
		if res.OK() && len(res.Warnings) == 0 && len(res.Videos) > 0 {
			if data, err := json.Marshal(res.Videos); err == nil {
				c.store(key, data, gen)
			}
		}
		return res, nil
	})
	if shared {
		metrics.FeedCacheTotal.WithLabelValues("shared").Inc()
	}

	res := v.(FeedResult)
	videos := make([]models.VideoRecord, len(res.Videos))
	copy(videos, res.Videos)
	res.Videos = videos
	return res
}

// Clear drops every cached feed, including results of fetches still in flight.
func (c *CachedFeed) Clear() {
	c.mu.Lock()
	c.gen++
	c.cache.Clear()
	c.mu.Unlock()
	c.logger.Info().Msg("feed cache cleared")
}

func (c *CachedFeed) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *CachedFeed) store(key string, data []byte, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.logger.Debug().Str("key", key).Msg("discarding feed fetched before a clear")
		return
	}
	c.cache.Set(key, data, c.ttl)
}

func (c *CachedFeed) Stats() cache.Stats {
	return c.cache.Stats()
}

// feedCacheKey never embeds the API key itself, only a short digest of it.
func feedCacheKey(p models.FeedParams) string {
	sum := sha256.Sum256([]byte(p.APIKey))
	return cache.Key("feed", p.RegionCode, string(p.Order), strconv.Itoa(p.MaxResults), hex.EncodeToString(sum[:6]))
}
