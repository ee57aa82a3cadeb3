package services

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"google.golang.org/api/youtube/v3"

	"trendboard/internal/models"
)

const (
	descriptionLimit = 200
	ellipsis         = "..."
	zeroCount        = "0"
)

var errMissingField = errors.New("item is missing its id or snippet")

func recordFromVideo(v *youtube.Video) models.VideoRecord {
	s := v.Snippet
	medium, high := thumbnailURLs(s.Thumbnails)
	rec := models.VideoRecord{
		ID:                 v.Id,
		Title:              s.Title,
		Channel:            s.ChannelTitle,
		ThumbnailURL:       medium,
		ThumbnailURLHigh:   high,
		ViewCount:          zeroCount,
		LikeCount:          zeroCount,
		CommentCount:       zeroCount,
		PublishedAt:        s.PublishedAt,
		DescriptionExcerpt: excerpt(s.Description),
		WatchURL:           models.WatchURL(v.Id),
	}
	applyStats(&rec, v)
	return rec
}

func recordFromSearchResult(r *youtube.SearchResult) models.VideoRecord {
	s := r.Snippet
	id := r.Id.VideoId
	medium, high := thumbnailURLs(s.Thumbnails)
	return models.VideoRecord{
		ID:                 id,
		Title:              s.Title,
		Channel:            s.ChannelTitle,
		ThumbnailURL:       medium,
		ThumbnailURLHigh:   high,
		ViewCount:          zeroCount,
		LikeCount:          zeroCount,
		CommentCount:       zeroCount,
		PublishedAt:        s.PublishedAt,
		DescriptionExcerpt: excerpt(s.Description),
		WatchURL:           models.WatchURL(id),
	}
}

// applyStats copies statistics and duration from v onto rec. Absent parts leave rec untouched.
func applyStats(rec *models.VideoRecord, v *youtube.Video) {
	if st := v.Statistics; st != nil {
		rec.ViewCount = strconv.FormatUint(st.ViewCount, 10)
		rec.LikeCount = strconv.FormatUint(st.LikeCount, 10)
		rec.CommentCount = strconv.FormatUint(st.CommentCount, 10)
	}
	if cd := v.ContentDetails; cd != nil {
		rec.DurationISO8601 = cd.Duration
	}
}

// thumbnailURLs picks the medium image (default as last resort) and the high image, which
// falls back to the medium one for this record.
func thumbnailURLs(t *youtube.ThumbnailDetails) (medium, high string) {
	if t == nil {
		return "", ""
	}
	medium = thumbURL(t.Medium)
	if medium == "" {
		medium = thumbURL(t.Default)
	}
	high = thumbURL(t.High)
	if high == "" {
		high = medium
	}
	return medium, high
}

func thumbURL(t *youtube.Thumbnail) string {
	if t == nil {
		return ""
	}
	return t.Url
}

// excerpt keeps the first 200 characters of a non-empty description and marks it with "...".
func excerpt(description string) string {
	if description == "" {
		return ""
	}
	if utf8.RuneCountInString(description) > descriptionLimit {
		description = string([]rune(description)[:descriptionLimit])
	}
	return description + ellipsis
}
