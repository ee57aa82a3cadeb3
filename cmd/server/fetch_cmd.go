package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"trendboard/internal/config"
	"trendboard/internal/logging"
	"trendboard/internal/models"
	"trendboard/internal/services"
)

var errEmptyFeed = errors.New("feed is empty")

type fetchOptions struct {
	Region string
	Order  string
	Max    int
	Query  string
}

type fetchOutput struct {
	Region   string               `json:"region"`
	Order    models.OrderMode     `json:"order"`
	Total    int                  `json:"total"`
	Videos   []models.VideoRecord `json:"videos"`
	Problem  string               `json:"problem,omitempty"`
	Warnings []string             `json:"warnings,omitempty"`
}

func newFetchCmd() *cobra.Command {
	var opts fetchOptions
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one feed and print it as JSON",
		Example: `  trendboard fetch --region US --order viewCount --max 20
  trendboard fetch --query music`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logging.Configure(logging.Config{Level: cfg.LogLevel, Output: cmd.ErrOrStderr()})
			return runFetch(cmd.Context(), cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&opts.Region, "region", "", "two-letter country code (default from DEFAULT_REGION)")
	cmd.Flags().StringVar(&opts.Order, "order", "", "mostPopular, date, viewCount or rating (default from DEFAULT_ORDER)")
	cmd.Flags().IntVar(&opts.Max, "max", 0, "number of videos, 10 to 50 (default from DEFAULT_MAX_RESULTS)")
	cmd.Flags().StringVar(&opts.Query, "query", "", "keep only videos whose title or channel contains this text")
	return cmd
}

func runFetch(ctx context.Context, cfg *config.Config, opts fetchOptions, stdout, stderr io.Writer) error {
	params := models.FeedParams{
		APIKey:     cfg.YouTubeAPIKey,
		MaxResults: cfg.DefaultMaxResults,
		RegionCode: cfg.DefaultRegion,
		Order:      models.OrderMode(cfg.DefaultOrder),
	}
	if opts.Region != "" {
		params.RegionCode = strings.ToUpper(opts.Region)
	}
	if opts.Order != "" {
		params.Order = models.OrderMode(opts.Order)
	}
	if opts.Max != 0 {
		params.MaxResults = opts.Max
	}
	if fields := params.Validate(); fields != nil {
		return fmt.Errorf("invalid arguments: %v", fields)
	}

	fetcher, err := services.NewFeedFetcher(ctx, services.FetcherConfig{
		Endpoint: cfg.YouTubeEndpoint,
		Timeout:  cfg.YouTubeRequestTimeout,
	}, logging.WithComponent("fetcher"))
	if err != nil {
		return err
	}

	res := fetcher.Fetch(ctx, params)

	videos := res.Videos
	if q := strings.TrimSpace(opts.Query); q != "" {
		filtered := make([]models.VideoRecord, 0, len(videos))
		for _, v := range videos {
			if v.Matches(q) {
				filtered = append(filtered, v)
			}
		}
		videos = filtered
	}

	out := fetchOutput{
		Region: params.RegionCode,
		Order:  params.Order,
		Total:  len(videos),
		Videos: videos,
	}
	if res.Problem != nil {
		out.Problem = res.Problem.Error()
		fmt.Fprintln(stderr, services.UserMessage(res.Problem))
	}
	for _, w := range res.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
		fmt.Fprintln(stderr, services.UserMessage(w))
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}

	if len(videos) == 0 {
		return errEmptyFeed
	}
	return nil
}
