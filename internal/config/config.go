// Package config loads the TOML configuration file and applies defaults.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Version is the analyzer version stamped into every sidecar.
const Version = "0.1.0"

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Logging  LoggingConfig  `toml:"logging"`
	Vision   VisionConfig   `toml:"vision"`
	Analysis AnalysisConfig `toml:"analysis"`
	Crawler  CrawlerConfig  `toml:"crawler"`
	Storage  StorageConfig  `toml:"storage"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string   `toml:"host"`
	Port               int      `toml:"port"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
	ReadTimeoutSec     int      `toml:"read_timeout_sec"`
	WriteTimeoutSec    int      `toml:"write_timeout_sec"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// VisionConfig holds settings for the vision-model endpoint. BaseURL points
// at any OpenAI-compatible chat-completions API; for a local Ollama that is
// "http://localhost:11434/v1".
type VisionConfig struct {
	BaseURL        string  `toml:"base_url"`
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Temperature    float64 `toml:"temperature"`
}

// AnalysisConfig holds the thresholds driving segmentation and aggregation.
type AnalysisConfig struct {
	FrameSampleInterval     float64 `toml:"frame_sample_interval"`
	MaxFramesPerVideo       int     `toml:"max_frames_per_video"`
	StaticThreshold         float64 `toml:"static_threshold"`
	MinStaticDuration       float64 `toml:"min_static_duration"`
	HighlightScoreThreshold int     `toml:"highlight_score_threshold"`
	HighlightMinDuration    float64 `toml:"highlight_min_duration"`
	TagFrequencyThreshold   float64 `toml:"tag_frequency_threshold"`
	MaxConcurrentAnalyses   int     `toml:"max_concurrent_analyses"`
}

// CrawlerConfig holds library-scan settings.
type CrawlerConfig struct {
	Enabled         bool   `toml:"enabled"`
	Root            string `toml:"root"`
	IntervalSeconds int    `toml:"interval_seconds"`
	PauseSeconds    int    `toml:"pause_seconds"`
}

// StorageConfig holds the SQLite history database location.
type StorageConfig struct {
	SQLitePath string `toml:"sqlite_path"`
}

// Default returns the configuration used when a key is absent from the file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8420,
			ReadTimeoutSec:  30,
			WriteTimeoutSec: 900,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Vision: VisionConfig{
			BaseURL:        "http://localhost:11434/v1",
			APIKey:         "ollama",
			Model:          "llava:13b",
			TimeoutSeconds: 300,
			Temperature:    0.3,
		},
		Analysis: AnalysisConfig{
			FrameSampleInterval:     2.0,
			MaxFramesPerVideo:       100,
			StaticThreshold:         0.02,
			MinStaticDuration:       1.0,
			HighlightScoreThreshold: 7,
			HighlightMinDuration:    5.0,
			TagFrequencyThreshold:   0.2,
			MaxConcurrentAnalyses:   1,
		},
		Crawler: CrawlerConfig{
			Enabled:         false,
			Root:            "/videos",
			IntervalSeconds: 3600,
			PauseSeconds:    30,
		},
		Storage: StorageConfig{
			SQLitePath: "propwash.db",
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is an
// error; use Default() directly to run without one.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Analysis.FrameSampleInterval <= 0 {
		return fmt.Errorf("analysis.frame_sample_interval must be positive, got %g", c.Analysis.FrameSampleInterval)
	}
	if c.Analysis.MaxFramesPerVideo <= 0 {
		return fmt.Errorf("analysis.max_frames_per_video must be positive, got %d", c.Analysis.MaxFramesPerVideo)
	}
	if c.Analysis.StaticThreshold <= 0 {
		return fmt.Errorf("analysis.static_threshold must be positive, got %g", c.Analysis.StaticThreshold)
	}
	if c.Analysis.HighlightScoreThreshold < 1 || c.Analysis.HighlightScoreThreshold > 10 {
		return fmt.Errorf("analysis.highlight_score_threshold must be in [1,10], got %d", c.Analysis.HighlightScoreThreshold)
	}
	if c.Analysis.TagFrequencyThreshold < 0 || c.Analysis.TagFrequencyThreshold > 1 {
		return fmt.Errorf("analysis.tag_frequency_threshold must be in [0,1], got %g", c.Analysis.TagFrequencyThreshold)
	}
	if c.Analysis.MaxConcurrentAnalyses < 1 {
		return fmt.Errorf("analysis.max_concurrent_analyses must be at least 1, got %d", c.Analysis.MaxConcurrentAnalyses)
	}
	if c.Vision.Model == "" {
		return fmt.Errorf("vision.model must be set")
	}
	return nil
}
