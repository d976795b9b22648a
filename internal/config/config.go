package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// MaxPageSize is the largest page size the metering API accepts.
const MaxPageSize = 1000

// Config holds application configuration loaded from environment variables.
type Config struct {
	HTTPPort        string
	AppMode         string
	FiberPrefork    bool
	MeterAPIURL     string
	MeterAPIKey     string
	SamplePages     int
	SamplePageSize  int
	SampleWindow    time.Duration
	CacheTTL        time.Duration
	RefreshInterval time.Duration
	ClientTimeout   time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", ":8080"),
		AppMode:         strings.ToLower(getEnv("APP_MODE", "dev")),
		FiberPrefork:    parseBoolEnv("FIBER_PREFORK", false),
		SamplePages:     parseIntEnv("SAMPLE_PAGES", 5),
		SamplePageSize:  parseIntEnv("SAMPLE_PAGE_SIZE", MaxPageSize),
		SampleWindow:    parseDurationEnv("SAMPLE_WINDOW", 30*24*time.Hour),
		CacheTTL:        parseDurationEnv("CACHE_TTL", 30*time.Second),
		RefreshInterval: parseDurationEnv("REFRESH_INTERVAL", time.Minute),
		ClientTimeout:   parseDurationEnv("CLIENT_TIMEOUT", 10*time.Second),
	}

	cfg.MeterAPIURL = os.Getenv("METER_API_URL")
	if cfg.MeterAPIURL == "" {
		return nil, fmt.Errorf("METER_API_URL is required")
	}

	cfg.MeterAPIKey = os.Getenv("METER_API_KEY")
	if cfg.MeterAPIKey == "" {
		return nil, fmt.Errorf("METER_API_KEY is required")
	}

	if cfg.SamplePages < 1 {
		cfg.SamplePages = 1
	}
	if cfg.SamplePageSize < 1 || cfg.SamplePageSize > MaxPageSize {
		cfg.SamplePageSize = MaxPageSize
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseIntEnv(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
