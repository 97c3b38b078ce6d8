package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level      string `yaml:"level"`
		Pretty     bool   `yaml:"pretty"`
		File       string `yaml:"file"` // optional rotated log file
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	DataSource struct {
		Provider string `yaml:"provider"` // yahoo or mock
		Suffix   string `yaml:"suffix"`   // appended to tickers, e.g. ".T"
	} `yaml:"data_source"`
	Schedule struct {
		MidTermCron  string `yaml:"mid_term_cron"`
		LongTermCron string `yaml:"long_term_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Ranking struct {
		TopN    int `yaml:"top_n"`
		Workers int `yaml:"workers"`
	} `yaml:"ranking"`
	Scoring ScoringFile `yaml:"scoring"`
	Proxy   string      `yaml:"proxy"`
}

// Load reads .env and the YAML config file, then applies environment variable
// overrides and defaults. Unknown YAML keys are rejected.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{Scoring: DefaultScoringFile()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		cfg.Log.Pretty = v == "true"
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("TICKER_SUFFIX"); v != "" {
		cfg.DataSource.Suffix = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_MID_TERM"); v != "" {
		cfg.Schedule.MidTermCron = v
	}
	if v := os.Getenv("CRON_LONG_TERM"); v != "" {
		cfg.Schedule.LongTermCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("RANKING_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ranking.TopN = n
		}
	}

	// Defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 50
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = 30
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.Schedule.MidTermCron == "" {
		cfg.Schedule.MidTermCron = "0 30 18 * * 1-5"
	}
	if cfg.Schedule.LongTermCron == "" {
		cfg.Schedule.LongTermCron = "0 0 7 * * 6"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/value_sentinel.db"
	}
	if cfg.Ranking.TopN == 0 {
		cfg.Ranking.TopN = 30
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	default:
		return fmt.Errorf("data_source.provider must be yahoo or mock, got %q", c.DataSource.Provider)
	}
	if c.Ranking.TopN < 0 {
		return fmt.Errorf("ranking.top_n must not be negative")
	}
	if c.Ranking.Workers < 0 {
		return fmt.Errorf("ranking.workers must not be negative")
	}
	return nil
}

// BuildScoring resolves the scoring section. Invalid weights or thresholds are fatal.
func (c *Config) BuildScoring() (*Scoring, error) {
	return BuildScoring(c.Scoring)
}
