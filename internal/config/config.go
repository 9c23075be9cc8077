package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr      string
	Port            string
	DatabasePath    string
	SessionSecret   string
	GinMode         string
	SearchIndexPath string

	// Timezone is the zone used for calendar aggregation and the
	// date filter on search. Location is the resolved form.
	Timezone string
	Location *time.Location

	// Per-surface page sizes.
	HomePageSize    int
	SearchPageSize  int
	ProfilePageSize int
	AuthorsPageSize int

	// Search field weights and term combination mode.
	SearchTitleWeight   float64
	SearchExcerptWeight float64
	SearchConjunctive   bool

	// SearchResultLimit caps ranked hits per query; the browse fallback
	// is not capped, so this bounds how far search results can page.
	SearchResultLimit int

	// RequestTimeout bounds database work done on behalf of a single
	// request. Zero disables the deadline.
	RequestTimeout time.Duration

	// Cron spec for the periodic search index rebuild.
	ReindexSpec string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	port := envOr("PORT", "8080")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	tz := envOr("TIMEZONE", "UTC")
	location, err := time.LoadLocation(tz)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	cfg := AppConfig{
		ListenAddr:          listenAddr,
		Port:                port,
		DatabasePath:        envOr("DATABASE_PATH", "theblogs.db"),
		SessionSecret:       envOr("SESSION_SECRET", "theblogs-dev-secret"),
		GinMode:             envOr("GIN_MODE", "release"),
		SearchIndexPath:     strings.TrimSpace(os.Getenv("SEARCH_INDEX_PATH")),
		Timezone:            tz,
		Location:            location,
		HomePageSize:        envIntOr("HOME_PAGE_SIZE", 3),
		SearchPageSize:      envIntOr("SEARCH_PAGE_SIZE", 5),
		ProfilePageSize:     envIntOr("PROFILE_PAGE_SIZE", 5),
		AuthorsPageSize:     envIntOr("AUTHORS_PAGE_SIZE", 12),
		SearchTitleWeight:   envFloatOr("SEARCH_TITLE_WEIGHT", 1.0),
		SearchExcerptWeight: envFloatOr("SEARCH_EXCERPT_WEIGHT", 0.4),
		SearchConjunctive:   envBoolOr("SEARCH_CONJUNCTIVE", false),
		SearchResultLimit:   envIntOr("SEARCH_RESULT_LIMIT", 100),
		RequestTimeout:      envDurationOr("REQUEST_TIMEOUT", 10*time.Second),
		ReindexSpec:         envOr("SEARCH_REINDEX_SPEC", "@every 10m"),
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envIntOr(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envFloatOr(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func envBoolOr(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
