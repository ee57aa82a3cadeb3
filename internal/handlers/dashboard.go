package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"trendboard/internal/format"
	"trendboard/internal/logging"
	"trendboard/internal/models"
	"trendboard/internal/services"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

const (
	cardTitleLimit   = 50
	cardChannelLimit = 25
)

type DashboardHandler struct {
	feed     services.Feed
	cache    FeedCache
	defaults FeedDefaults
	logger   zerolog.Logger
	now      func() time.Time
}

func NewDashboardHandler(feed services.Feed, cache FeedCache, defaults FeedDefaults, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{feed: feed, cache: cache, defaults: defaults, logger: logger, now: time.Now}
}

type videoCard struct {
	Rank      int
	WatchURL  string
	Thumbnail string
	Duration  string
	Title     string
	FullTitle string
	Channel   string
	Views     string
	Likes     string
	Comments  string
	Published string
}

type summaryTiles struct {
	Videos   int
	Views    string
	Likes    string
	Comments string
}

type dashboardPage struct {
	Region      string
	RegionLabel string
	Order       models.OrderMode
	OrderLabel  string
	MaxResults  int
	Columns     int
	Search      string
	RefreshURL  template.URL
	UpdatedAt   string

	Regions []models.Region
	Orders  []orderOption
	Layouts []models.Layout
	Min     int
	Max     int
	Step    int

	Errors   map[string]string
	Problem  string
	Warnings []string
	Summary  summaryTiles
	Total    int
	Matched  int
	Cards    []videoCard
}

// Page renders the HTML dashboard.
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	query, fields := parseFeedQuery(r, h.defaults)
	page := h.basePage(query)
	page.RefreshURL = refreshURL(r.URL.Query())

	status := http.StatusOK
	if fields != nil {
		status = http.StatusBadRequest
		page.Errors = fields
		h.render(w, r, status, page)
		return
	}

	res := h.feed.Fetch(r.Context(), query.Params)
	if res.Problem != nil {
		page.Problem = services.UserMessage(res.Problem)
	}
	for _, warning := range res.Warnings {
		page.Warnings = append(page.Warnings, services.UserMessage(warning))
	}

	sum := summarize(res.Videos)
	page.Summary = summaryTiles{
		Videos:   sum.Videos,
		Views:    format.Count(sum.Views),
		Likes:    format.Count(sum.Likes),
		Comments: format.Count(sum.Comments),
	}
	page.Total = len(res.Videos)

	visible := filterVideos(res.Videos, query.Search)
	page.Matched = len(visible)
	now := h.now()
	page.Cards = make([]videoCard, len(visible))
	for i, v := range visible {
		page.Cards[i] = buildCard(v, now)
		// Ranks only mean something on the unfiltered feed.
		if query.Search == "" {
			page.Cards[i].Rank = i + 1
		}
	}

	h.render(w, r, status, page)
}

// RefreshPage clears the feed cache and sends the browser back to the same view.
func (h *DashboardHandler) RefreshPage(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear()
	logging.FromContext(r.Context(), h.logger).Info().Msg("feed cache refresh requested")

	target := "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *DashboardHandler) basePage(q feedQuery) dashboardPage {
	orders := make([]orderOption, len(models.OrderModes))
	for i, o := range models.OrderModes {
		orders[i] = orderOption{Value: o, Label: o.Label()}
	}
	return dashboardPage{
		Region:      q.Params.RegionCode,
		RegionLabel: models.RegionLabel(q.Params.RegionCode),
		Order:       q.Params.Order,
		OrderLabel:  q.Params.Order.Label(),
		MaxResults:  q.Params.MaxResults,
		Columns:     q.Columns,
		Search:      q.Search,
		UpdatedAt:   h.now().Format("15:04:05"),
		Regions:     models.Regions,
		Orders:      orders,
		Layouts:     models.Layouts,
		Min:         models.MinResults,
		Max:         models.MaxResults,
		Step:        models.ResultsStep,
	}
}

func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, status int, page dashboardPage) {
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, page); err != nil {
		logging.FromContext(r.Context(), h.logger).Error().Err(err).Msg("failed to render dashboard")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to render dashboard", r))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func buildCard(v models.VideoRecord, now time.Time) videoCard {
	views, _ := strconv.ParseUint(v.ViewCount, 10, 64)
	likes, _ := strconv.ParseUint(v.LikeCount, 10, 64)
	comments, _ := strconv.ParseUint(v.CommentCount, 10, 64)

	// More likes than views is an upstream artifact.
	if likes > views && views > 0 {
		likes = 0
	}

	card := videoCard{
		WatchURL:  v.WatchURL,
		Thumbnail: v.ThumbnailURLHigh,
		Duration:  format.Duration(v.DurationISO8601),
		Title:     format.Truncate(v.Title, cardTitleLimit),
		FullTitle: v.Title,
		Channel:   format.Truncate(v.Channel, cardChannelLimit),
		Views:     format.Count(strconv.FormatUint(views, 10)),
		Published: age(v.PublishedAt, now),
	}
	if likes > 0 {
		card.Likes = format.Count(strconv.FormatUint(likes, 10))
	}
	if comments > 0 {
		card.Comments = format.Count(strconv.FormatUint(comments, 10))
	}
	return card
}

// refreshURL keeps the current view's query so the redirect lands on the same page.
func refreshURL(q url.Values) template.URL {
	keep := url.Values{}
	for _, k := range []string{"region", "order", "max", "cols", "q"} {
		if v := q.Get(k); v != "" {
			keep.Set(k, v)
		}
	}
	if len(keep) == 0 {
		return "/refresh"
	}
	return template.URL("/refresh?" + keep.Encode())
}

// age is RelativeTime with day counts past a year folded into years.
func age(publishedAt string, now time.Time) string {
	rel := format.RelativeTime(publishedAt, now)
	if days, ok := strings.CutSuffix(rel, "일 전"); ok {
		if n, err := strconv.Atoi(days); err == nil && n > 365 {
			return strconv.Itoa(n/365) + "년 전"
		}
	}
	return rel
}
