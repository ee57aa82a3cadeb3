package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

const (
	MinResults     = 10
	MaxResults     = 50
	ResultsStep    = 5
	DefaultResults = 30
)

// VideoRecord is one normalized entry of a feed. Counts are decimal strings, "0" when unknown.
type VideoRecord struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Channel            string `json:"channel"`
	ThumbnailURL       string `json:"thumbnail_url"`
	ThumbnailURLHigh   string `json:"thumbnail_url_high"`
	ViewCount          string `json:"view_count"`
	LikeCount          string `json:"like_count"`
	CommentCount       string `json:"comment_count"`
	PublishedAt        string `json:"published_at"`
	DurationISO8601    string `json:"duration_iso8601"`
	DescriptionExcerpt string `json:"description_excerpt"`
	WatchURL           string `json:"watch_url"`
}

// Matches reports whether term occurs in the title or channel, ignoring case.
func (v VideoRecord) Matches(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(v.Title), term) || strings.Contains(strings.ToLower(v.Channel), term)
}

func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

type OrderMode string

const (
	OrderMostPopular OrderMode = "mostPopular"
	OrderDate        OrderMode = "date"
	OrderViewCount   OrderMode = "viewCount"
	OrderRating      OrderMode = "rating"
)

var OrderModes = []OrderMode{OrderMostPopular, OrderDate, OrderViewCount, OrderRating}

func (o OrderMode) Valid() bool {
	for _, m := range OrderModes {
		if o == m {
			return true
		}
	}
	return false
}

// Label is the dashboard caption for the order mode.
func (o OrderMode) Label() string {
	switch o {
	case OrderMostPopular:
		return "📈 인기순"
	case OrderDate:
		return "📅 최신순"
	case OrderViewCount:
		return "👁️ 조회수순"
	case OrderRating:
		return "⭐ 평점순"
	}
	return string(o)
}

// FeedParams is the full request tuple for one feed fetch.
type FeedParams struct {
	APIKey     string
	MaxResults int
	RegionCode string
	Order      OrderMode
}

// Normalize clamps MaxResults into range, upper-cases the region and defaults the order.
func (p FeedParams) Normalize() FeedParams {
	if p.MaxResults < MinResults {
		p.MaxResults = MinResults
	}
	if p.MaxResults > MaxResults {
		p.MaxResults = MaxResults
	}
	p.RegionCode = strings.ToUpper(strings.TrimSpace(p.RegionCode))
	if p.Order == "" {
		p.Order = OrderMostPopular
	}
	return p
}

// Validate reports per-field problems; a nil map means the params are usable as given.
func (p FeedParams) Validate() map[string]string {
	fields := map[string]string{}
	if p.MaxResults < MinResults || p.MaxResults > MaxResults {
		fields["max"] = fmt.Sprintf("must be between %d and %d", MinResults, MaxResults)
	}
	if !ValidRegion(p.RegionCode) {
		fields["region"] = "must be a two-letter country code"
	}
	if !p.Order.Valid() {
		fields["order"] = "must be one of mostPopular, date, viewCount, rating"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func ValidRegion(code string) bool {
	if len(code) != 2 {
		return false
	}
	r, err := language.ParseRegion(code)
	if err != nil {
		return false
	}
	return r.IsCountry()
}

type Region struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Regions are the countries offered by the dashboard selector, in display order.
var Regions = []Region{
	{"KR", "🇰🇷 한국"},
	{"US", "🇺🇸 미국"},
	{"JP", "🇯🇵 일본"},
	{"GB", "🇬🇧 영국"},
	{"DE", "🇩🇪 독일"},
	{"FR", "🇫🇷 프랑스"},
	{"CA", "🇨🇦 캐나다"},
	{"AU", "🇦🇺 호주"},
}

func RegionLabel(code string) string {
	for _, r := range Regions {
		if r.Code == code {
			return r.Label
		}
	}
	return code
}

type Layout struct {
	Columns int    `json:"columns"`
	Label   string `json:"label"`
}

var Layouts = []Layout{
	{3, "📱 모바일 (3열)"},
	{4, "💻 데스크톱 (4열)"},
	{2, "📺 대형 화면 (2열)"},
}

const DefaultColumns = 4

func ValidColumns(n int) bool {
	for _, l := range Layouts {
		if l.Columns == n {
			return true
		}
	}
	return false
}
