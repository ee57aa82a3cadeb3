package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"trendboard/internal/metrics"
	"trendboard/internal/models"
)

const (
	DefaultRequestTimeout = 10 * time.Second

	endpointChart  = "videos.chart"
	endpointSearch = "search"
	endpointStats  = "videos.stats"
)

var (
	chartParts = []string{"snippet", "statistics", "contentDetails"}
	statsParts = []string{"statistics", "contentDetails"}
)

// searchQueries seeds the search endpoint for orderings the trending chart cannot serve.
var searchQueries = map[models.OrderMode]string{
	models.OrderDate:      "music OR gaming OR news OR entertainment",
	models.OrderViewCount: "trending OR viral OR popular",
	models.OrderRating:    "best OR top OR amazing",
}

// Feed is anything that can produce a feed for a parameter tuple.
type Feed interface {
	Fetch(ctx context.Context, params models.FeedParams) FeedResult
}

// FeedResult is the outcome of one fetch. Videos is never nil. When Problem is set, Videos is
// empty; Warnings carry non-fatal enrichment failures.
type FeedResult struct {
	Videos   []models.VideoRecord
	Problem  error
	Warnings []error
}

func (r FeedResult) OK() bool { return r.Problem == nil }

func failed(err error) FeedResult {
	return FeedResult{Videos: []models.VideoRecord{}, Problem: err}
}

type FetcherConfig struct {
	// Endpoint overrides the API base URL, e.g. for a local fake.
	Endpoint string
	// Timeout bounds each upstream request.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// FeedFetcher hides the chart/search asymmetry of the video API behind one uniform feed shape.
// It keeps no state between calls.
type FeedFetcher struct {
	yt      *youtube.Service
	timeout time.Duration
	logger  zerolog.Logger
}

func NewFeedFetcher(ctx context.Context, cfg FetcherConfig, logger zerolog.Logger) (*FeedFetcher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRequestTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	// The API key travels per call, so the client itself is unauthenticated.
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}

	return &FeedFetcher{yt: svc, timeout: cfg.Timeout, logger: logger}, nil
}

// Fetch returns the normalized feed for params. It never returns an error: failures are carried
// in the result and have already been logged.
func (f *FeedFetcher) Fetch(ctx context.Context, params models.FeedParams) FeedResult {
	params = params.Normalize()

	var res FeedResult
	if params.Order == models.OrderMostPopular {
		res = f.fetchChart(ctx, params)
	} else {
		res = f.fetchSearch(ctx, params)
	}

	f.report(params, res)
	return res
}

func (f *FeedFetcher) fetchChart(ctx context.Context, p models.FeedParams) FeedResult {
	resp, err := execute(ctx, f.timeout, endpointChart, func(ctx context.Context) (*youtube.VideoListResponse, error) {
		return f.yt.Videos.List(chartParts).
			Chart("mostPopular").
			RegionCode(p.RegionCode).
			MaxResults(int64(p.MaxResults)).
			Context(ctx).
			Do(keyOption(p.APIKey)...)
	})
	if err != nil {
		return failed(err)
	}
	if len(resp.Items) == 0 {
		return failed(&EmptyResultError{Endpoint: endpointChart})
	}

	videos := make([]models.VideoRecord, 0, len(resp.Items))
	seen := make(map[string]bool, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Id == "" || item.Snippet == nil {
			return failed(&ResponseFormatError{Endpoint: endpointChart, Err: errMissingField})
		}
		if seen[item.Id] {
			continue
		}
		seen[item.Id] = true
		videos = append(videos, recordFromVideo(item))
	}
	return FeedResult{Videos: videos}
}

func (f *FeedFetcher) fetchSearch(ctx context.Context, p models.FeedParams) FeedResult {
	resp, err := execute(ctx, f.timeout, endpointSearch, func(ctx context.Context) (*youtube.SearchListResponse, error) {
		return f.yt.Search.List([]string{"snippet"}).
			Type("video").
			RegionCode(p.RegionCode).
			MaxResults(int64(p.MaxResults)).
			Order(string(p.Order)).
			Q(searchQueries[p.Order]).
			Context(ctx).
			Do(keyOption(p.APIKey)...)
	})
	if err != nil {
		return failed(err)
	}
	if len(resp.Items) == 0 {
		return failed(&EmptyResultError{Endpoint: endpointSearch})
	}

	videos := make([]models.VideoRecord, 0, len(resp.Items))
	seen := make(map[string]bool, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			return failed(&ResponseFormatError{Endpoint: endpointSearch, Err: errMissingField})
		}
		if seen[item.Id.VideoId] {
			continue
		}
		seen[item.Id.VideoId] = true
		videos = append(videos, recordFromSearchResult(item))
	}

	res := FeedResult{Videos: videos}
	if warning := f.backfillStats(ctx, p, videos); warning != nil {
		res.Warnings = append(res.Warnings, warning)
	}
	return res
}

// backfillStats fills statistics and duration in place. Its failure never invalidates the feed.
func (f *FeedFetcher) backfillStats(ctx context.Context, p models.FeedParams, videos []models.VideoRecord) error {
	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}

	resp, err := execute(ctx, f.timeout, endpointStats, func(ctx context.Context) (*youtube.VideoListResponse, error) {
		return f.yt.Videos.List(statsParts).
			Id(strings.Join(ids, ",")).
			Context(ctx).
			Do(keyOption(p.APIKey)...)
	})
	if err != nil {
		return &PartialEnrichmentFailure{Err: err}
	}

	byID := make(map[string]*youtube.Video, len(resp.Items))
	for _, item := range resp.Items {
		if item != nil && item.Id != "" {
			byID[item.Id] = item
		}
	}

	var missing []string
	for i := range videos {
		item, ok := byID[videos[i].ID]
		if !ok {
			missing = append(missing, videos[i].ID)
			continue
		}
		applyStats(&videos[i], item)
	}
	if len(missing) > 0 {
		return &PartialEnrichmentFailure{MissingIDs: missing}
	}
	return nil
}

func (f *FeedFetcher) report(p models.FeedParams, res FeedResult) {
	outcome := outcomeLabel(res)
	metrics.FeedFetchTotal.WithLabelValues(string(p.Order), outcome).Inc()

	log := f.logger.With().
		Str("region", p.RegionCode).
		Str("order", string(p.Order)).
		Int("max_results", p.MaxResults).
		Logger()

	switch outcome {
	case "empty":
		log.Info().Err(res.Problem).Msg("feed is empty")
	case "ok", "partial":
		metrics.FeedVideos.WithLabelValues(string(p.Order)).Set(float64(len(res.Videos)))
		for _, w := range res.Warnings {
			log.Warn().Err(w).Msg("feed statistics incomplete")
		}
		log.Debug().Int("videos", len(res.Videos)).Msg("feed fetched")
	default:
		log.Error().Err(res.Problem).Str("outcome", outcome).Msg("feed fetch failed")
	}
}

// execute runs one upstream call under the per-request timeout and classifies its error.
func execute[T any](ctx context.Context, timeout time.Duration, endpoint string, call func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	out, err := call(ctx)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		err = classifyError(endpoint, err)
		metrics.UpstreamRequestTotal.WithLabelValues(endpoint, "error").Inc()
		return out, err
	}
	metrics.UpstreamRequestTotal.WithLabelValues(endpoint, "ok").Inc()
	return out, nil
}

func keyOption(apiKey string) []googleapi.CallOption {
	if apiKey == "" {
		return nil
	}
	return []googleapi.CallOption{googleapi.QueryParameter("key", apiKey)}
}
