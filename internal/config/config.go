package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// YouTube Data API
	YouTubeAPIKey         string
	YouTubeEndpoint       string
	YouTubeRequestTimeout time.Duration

	// Redis (optional, memory cache when empty)
	RedisURL string

	// Feed
	FeedCacheTTL      time.Duration
	DefaultRegion     string
	DefaultOrder      string
	DefaultMaxResults int
	WarmRegions       []string
	WarmInterval      time.Duration

	// HTTP
	RateLimitPerMinute int

	// Logging
	LogLevel string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cacheTTL := getEnvAsDurationOrDefault("FEED_CACHE_TTL", 5*time.Minute)

	cfg := &Config{
		Port:                  getEnvOrDefault("PORT", "8080"),
		Env:                   getEnvOrDefault("ENV", "development"),
		YouTubeAPIKey:         mustGetEnv("YOUTUBE_API_KEY"),
		YouTubeEndpoint:       getEnvOrDefault("YOUTUBE_API_ENDPOINT", ""),
		YouTubeRequestTimeout: getEnvAsDurationOrDefault("YOUTUBE_REQUEST_TIMEOUT", 10*time.Second),
		RedisURL:              getEnvOrDefault("REDIS_URL", ""),
		FeedCacheTTL:          cacheTTL,
		DefaultRegion:         strings.ToUpper(getEnvOrDefault("DEFAULT_REGION", "KR")),
		DefaultOrder:          getEnvOrDefault("DEFAULT_ORDER", "mostPopular"),
		DefaultMaxResults:     getEnvAsIntOrDefault("DEFAULT_MAX_RESULTS", 30),
		WarmRegions:           getEnvAsListOrDefault("WARM_REGIONS", nil),
		WarmInterval:          getEnvAsDurationOrDefault("WARM_INTERVAL", cacheTTL),
		RateLimitPerMinute:    getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 60),
		LogLevel:              getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvAsDurationOrDefault accepts Go durations ("90s") or bare seconds ("90").
func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(val); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}

func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
