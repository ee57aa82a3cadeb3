package handlers

import (
	"trendboard/internal/format"
	"trendboard/internal/models"
)

// FeedSummary aggregates the counts of the videos on screen.
type FeedSummary struct {
	Videos   int    `json:"videos"`
	Views    string `json:"views"`
	Likes    string `json:"likes"`
	Comments string `json:"comments"`
}

func summarize(videos []models.VideoRecord) FeedSummary {
	views := make([]string, len(videos))
	likes := make([]string, len(videos))
	comments := make([]string, len(videos))
	for i, v := range videos {
		views[i], likes[i], comments[i] = v.ViewCount, v.LikeCount, v.CommentCount
	}
	return FeedSummary{
		Videos:   len(videos),
		Views:    format.Sum(views...),
		Likes:    format.Sum(likes...),
		Comments: format.Sum(comments...),
	}
}

// filterVideos keeps videos whose title or channel contains q, ignoring case.
func filterVideos(videos []models.VideoRecord, q string) []models.VideoRecord {
	if q == "" {
		return videos
	}
	out := make([]models.VideoRecord, 0, len(videos))
	for _, v := range videos {
		if v.Matches(q) {
			out = append(out, v)
		}
	}
	return out
}
