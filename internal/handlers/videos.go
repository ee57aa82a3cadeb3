package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"trendboard/internal/cache"
	"trendboard/internal/logging"
	"trendboard/internal/models"
	"trendboard/internal/services"
)

// FeedCache is the cache control surface behind the refresh endpoints.
type FeedCache interface {
	Clear()
	Stats() cache.Stats
}

type VideoHandler struct {
	feed     services.Feed
	cache    FeedCache
	defaults FeedDefaults
	logger   zerolog.Logger
}

func NewVideoHandler(feed services.Feed, cache FeedCache, defaults FeedDefaults, logger zerolog.Logger) *VideoHandler {
	return &VideoHandler{feed: feed, cache: cache, defaults: defaults, logger: logger}
}

type feedProblem struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type videoListResponse struct {
	Videos     []models.VideoRecord `json:"videos"`
	Total      int                  `json:"total"`
	Matched    int                  `json:"matched"`
	Region     string               `json:"region"`
	Order      models.OrderMode     `json:"order"`
	MaxResults int                  `json:"max_results"`
	Query      string               `json:"query,omitempty"`
	Summary    FeedSummary          `json:"summary"`
	Problem    *feedProblem         `json:"problem,omitempty"`
	Warnings   []string             `json:"warnings,omitempty"`
}

// List returns the feed as JSON. Fetch problems are reported in the body next to an empty
// list, never as an HTTP error.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	query, fields := parseFeedQuery(r, h.defaults)
	if fields != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	res := h.feed.Fetch(r.Context(), query.Params)
	videos := filterVideos(res.Videos, query.Search)

	resp := videoListResponse{
		Videos:     videos,
		Total:      len(res.Videos),
		Matched:    len(videos),
		Region:     query.Params.RegionCode,
		Order:      query.Params.Order,
		MaxResults: query.Params.MaxResults,
		Query:      query.Search,
		Summary:    summarize(res.Videos),
	}
	if res.Problem != nil {
		resp.Problem = &feedProblem{Kind: problemKind(res.Problem), Message: services.UserMessage(res.Problem)}
	}
	for _, warning := range res.Warnings {
		resp.Warnings = append(resp.Warnings, services.UserMessage(warning))
	}

	writeJSON(w, http.StatusOK, resp)
}

type orderOption struct {
	Value models.OrderMode `json:"value"`
	Label string           `json:"label"`
}

// Options lists the selector values the dashboard offers.
func (h *VideoHandler) Options(w http.ResponseWriter, r *http.Request) {
	orders := make([]orderOption, len(models.OrderModes))
	for i, o := range models.OrderModes {
		orders[i] = orderOption{Value: o, Label: o.Label()}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"regions": models.Regions,
		"orders":  orders,
		"layouts": models.Layouts,
		"max_results": map[string]int{
			"min":     models.MinResults,
			"max":     models.MaxResults,
			"step":    models.ResultsStep,
			"default": h.defaults.MaxResults,
		},
		"defaults": map[string]interface{}{
			"region":  h.defaults.Region,
			"order":   h.defaults.Order,
			"columns": models.DefaultColumns,
		},
	})
}

// Refresh drops every cached feed so the next request goes upstream.
func (h *VideoHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear()
	logging.FromContext(r.Context(), h.logger).Info().Msg("feed cache refresh requested")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Feed cache cleared"})
}

func (h *VideoHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cache.Stats())
}

func problemKind(err error) string {
	var (
		transportErr *services.TransportError
		formatErr    *services.ResponseFormatError
		emptyErr     *services.EmptyResultError
	)
	switch {
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &formatErr):
		return "response_format"
	case errors.As(err, &emptyErr):
		return "empty"
	default:
		return "unknown"
	}
}
