package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every pipeline setting. It is constructed once and passed into
// components explicitly; there is no process-global configuration state.
type Config struct {
	// Input tables
	CSCFile     string `json:"csc_file"`
	SeedNetFile string `json:"seednet_file"`

	// Output
	OutputDir    string `json:"output_dir"`
	DatabasePath string `json:"database_path"`

	// Matching
	MatchThreshold int `json:"match_threshold"` // minimum similarity score for MATCHED
	SampleSize     int `json:"sample_size"`     // manual-review sample size

	// Enrichment
	GeminiAPIKey         string        `json:"gemini_api_key"`
	GeminiModel          string        `json:"gemini_model"`
	GoogleSearchAPIKey   string        `json:"google_search_api_key"`
	GoogleSearchEngineID string        `json:"google_search_engine_id"`
	SearchRatePerSecond  float64       `json:"search_rate_per_second"`
	ScholarRatePerSecond float64       `json:"scholar_rate_per_second"`
	EnrichmentWorkers    int           `json:"enrichment_workers"`
	EnrichmentTimeout    time.Duration `json:"enrichment_timeout"`

	// Server
	Port string `json:"port"`

	// Logging
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:            "data/processed",
		DatabasePath:         "data/final/stress_tolerant_seed_database.db",
		MatchThreshold:       80,
		SampleSize:           100,
		GeminiModel:          "gemini-2.5-flash",
		SearchRatePerSecond:  1.0,
		ScholarRatePerSecond: 0.5,
		EnrichmentWorkers:    4,
		EnrichmentTimeout:    30 * time.Second,
		Port:                 "8080",
		LogLevel:             "info",
	}
}

// LoadConfig builds the configuration from defaults, an optional JSON file and
// environment variable overrides, in that order.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SEEDPIPE_CSC_FILE"); v != "" {
		cfg.CSCFile = v
	}
	if v := os.Getenv("SEEDPIPE_SEEDNET_FILE"); v != "" {
		cfg.SeedNetFile = v
	}
	if v := os.Getenv("SEEDPIPE_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("SEEDPIPE_DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("SEEDPIPE_MATCH_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MatchThreshold = n
		}
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_API_KEY"); v != "" {
		cfg.GoogleSearchAPIKey = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_ENGINE_ID"); v != "" {
		cfg.GoogleSearchEngineID = v
	}
	if v := os.Getenv("SEEDPIPE_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("SEEDPIPE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SEEDPIPE_ENRICHMENT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EnrichmentWorkers = n
		}
	}
}

// Validate checks the ranges the pipeline depends on.
func (c *Config) Validate() error {
	if c.MatchThreshold < 0 || c.MatchThreshold > 100 {
		return fmt.Errorf("match_threshold must be in [0,100], got %d", c.MatchThreshold)
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("sample_size must be non-negative, got %d", c.SampleSize)
	}
	if c.EnrichmentWorkers < 1 {
		return fmt.Errorf("enrichment_workers must be at least 1, got %d", c.EnrichmentWorkers)
	}
	if c.SearchRatePerSecond <= 0 || c.ScholarRatePerSecond <= 0 {
		return fmt.Errorf("search rate limits must be positive")
	}
	return nil
}
