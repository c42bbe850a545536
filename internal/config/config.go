package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig carries every tunable of the application.
type AppConfig struct {
	// ODSBaseURL is the open-data portal endpoint.
	ODSBaseURL string

	// DatasetIDs are the station datasets to track, one station per id.
	DatasetIDs []string

	// FetchInterval controls how often the scheduler wakes up.
	FetchInterval time.Duration

	// RefreshBatch caps how many stations one scheduler tick refreshes
	// (0 = all of them).
	RefreshBatch int

	// CacheTTL is how long a station's observations are considered fresh.
	CacheTTL time.Duration

	// MaxRowsPerStation bounds how many observations one ingest pulls.
	MaxRowsPerStation int

	HTTPTimeout time.Duration
	Port        string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.ODSBaseURL = getenvDefault("ODS_BASE_URL", "")
	cfg.DatasetIDs = splitList(os.Getenv("ODS_DATASET_IDS"))
	if len(cfg.DatasetIDs) == 0 {
		return nil, fmt.Errorf("ODS_DATASET_IDS must name at least one station dataset")
	}

	interval, err := getenvDuration("FETCH_INTERVAL", "15m")
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	ttl, err := getenvDuration("CACHE_TTL", "5m")
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	timeout, err := getenvDuration("HTTP_TIMEOUT", "20s")
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.RefreshBatch = getenvInt("REFRESH_BATCH", 0)
	cfg.MaxRowsPerStation = getenvInt("MAX_ROWS_PER_STATION", 5)
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(getenvDefault(key, def))
}
