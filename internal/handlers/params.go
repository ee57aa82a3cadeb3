package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"trendboard/internal/models"
)

// FeedDefaults fill in whatever the query string leaves out.
type FeedDefaults struct {
	APIKey     string
	Region     string
	Order      models.OrderMode
	MaxResults int
}

// feedQuery is a parsed dashboard/API query.
type feedQuery struct {
	Params  models.FeedParams
	Search  string
	Columns int
}

// parseFeedQuery reads region, order, max, q and cols. Field errors are keyed by query name;
// nil means the query is valid.
func parseFeedQuery(r *http.Request, d FeedDefaults) (feedQuery, map[string]string) {
	q := r.URL.Query()
	fields := map[string]string{}

	out := feedQuery{
		Params: models.FeedParams{
			APIKey:     d.APIKey,
			RegionCode: d.Region,
			Order:      d.Order,
			MaxResults: d.MaxResults,
		},
		Search:  strings.TrimSpace(q.Get("q")),
		Columns: models.DefaultColumns,
	}
	if out.Params.Order == "" {
		out.Params.Order = models.OrderMostPopular
	}
	if out.Params.MaxResults == 0 {
		out.Params.MaxResults = models.DefaultResults
	}

	if v := strings.TrimSpace(q.Get("region")); v != "" {
		out.Params.RegionCode = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(q.Get("order")); v != "" {
		out.Params.Order = models.OrderMode(v)
	}
	if v := strings.TrimSpace(q.Get("max")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fields["max"] = "must be an integer"
		} else {
			out.Params.MaxResults = n
		}
	}
	if v := strings.TrimSpace(q.Get("cols")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !models.ValidColumns(n) {
			fields["cols"] = "must be one of 2, 3, 4"
		} else {
			out.Columns = n
		}
	}

	for k, msg := range out.Params.Validate() {
		if _, exists := fields[k]; !exists {
			fields[k] = msg
		}
	}

	if len(fields) == 0 {
		return out, nil
	}
	return out, fields
}
