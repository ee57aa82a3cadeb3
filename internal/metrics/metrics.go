// Package metrics provides Prometheus metrics for the feed pipeline.
// Labels stay low-cardinality: no video ids, no API keys.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedFetchTotal counts Fetch calls by order mode and outcome (ok, partial, transport, format, empty).
	FeedFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendboard_feed_fetch_total",
		Help: "Total number of feed fetches, by order mode and outcome.",
	}, []string{"order", "outcome"})

	// UpstreamRequestTotal counts requests to the video API by endpoint and result.
	UpstreamRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendboard_upstream_requests_total",
		Help: "Total number of upstream API requests, by endpoint and result.",
	}, []string{"endpoint", "result"})

	// UpstreamRequestDuration observes upstream latency by endpoint.
	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trendboard_upstream_request_duration_seconds",
		Help:    "Upstream API request latency, by endpoint.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})

	// FeedCacheTotal counts feed cache lookups by result (hit, miss, shared).
	FeedCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendboard_feed_cache_total",
		Help: "Total number of feed cache lookups, by result.",
	}, []string{"result"})

	// FeedVideos tracks the size of the last successful feed per order mode.
	FeedVideos = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "trendboard_feed_videos",
		Help: "Number of videos in the last successful feed, by order mode.",
	}, []string{"order"})

	// HTTPRequestDuration observes request latency by method, route pattern and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trendboard_http_request_duration_seconds",
		Help:    "HTTP request latencies in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// RateLimitedTotal counts requests rejected by the rate limiter, by route group.
	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendboard_rate_limited_total",
		Help: "Total number of rate limited requests.",
	}, []string{"scope"})
)
