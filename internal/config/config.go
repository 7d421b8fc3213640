// Package config provides configuration management for the listings renderer.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"listingdeck/pkg/utils"
)

// DefaultSourceFile is the listings export read when nothing else is configured.
const DefaultSourceFile = "airbnb_sf_listings_500.json"

// Configuration validation errors.
var (
	ErrMissingSource         = errors.New("source.file or source.url is required")
	ErrConflictingSources    = errors.New("only one of source.file and source.url may be set")
	ErrInvalidSourceURL      = errors.New("source.url must be an http:// or https:// URL with a host")
	ErrInvalidWindow         = errors.New("source.window must be at least 1")
	ErrInvalidTimeout        = errors.New("source.timeout_sec must be at least 1")
	ErrInvalidMaxSize        = errors.New("source.max_size_kb must be at least 1")
	ErrInvalidWorkers        = errors.New("pipeline.workers must be at least 1")
	ErrNoOutputs             = errors.New("at least one output must be enabled")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidWatchInterval  = errors.New("watch.min_interval_ms must be non-negative")
	ErrWatchRequiresFile     = errors.New("watch mode requires a local source file")
	ErrInvalidEnvironmentInt = errors.New("environment value is not an integer")
)

// Environment variables consulted by ApplyEnv.
const (
	EnvSource   = "LISTINGS_SOURCE"
	EnvWindow   = "LISTINGS_WINDOW"
	EnvLogLevel = "LISTINGS_LOG_LEVEL"
	EnvHTML     = "LISTINGS_HTML"
	EnvMarkdown = "LISTINGS_MARKDOWN"
	EnvChart    = "LISTINGS_CHART"
	EnvJSON     = "LISTINGS_JSON"
)

// Config represents the complete renderer configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Output   OutputConfig   `yaml:"output"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Logging  LoggingConfig  `yaml:"logging"`
	Watch    WatchConfig    `yaml:"watch"`
}

// SourceConfig describes where the listings export lives.
type SourceConfig struct {
	File       string `yaml:"file"`
	URL        string `yaml:"url"`
	UserAgent  string `yaml:"user_agent"`
	Window     int    `yaml:"window"`
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxSizeKb  int    `yaml:"max_size_kb"`
}

// IsLocalFile returns true if this source uses a local file.
func (s *SourceConfig) IsLocalFile() bool {
	return s.URL == ""
}

// GetSource returns the file path if local, or URL if remote.
func (s *SourceConfig) GetSource() string {
	if s.IsLocalFile() {
		return s.File
	}

	return s.URL
}

// SetSource points the config at a file path or an http(s) URL.
func (s *SourceConfig) SetSource(source string) {
	if IsURL(source) {
		s.URL = source
		s.File = ""

		return
	}

	s.File = source
	s.URL = ""
}

// GetTimeout returns the request timeout.
func (s *SourceConfig) GetTimeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// OutputConfig selects the rendering surfaces.
type OutputConfig struct {
	HTMLPath     string `yaml:"html_path"`
	MarkdownPath string `yaml:"markdown_path"`
	ChartPath    string `yaml:"chart_path"`
	JSONPath     string `yaml:"json_path"`
	Terminal     bool   `yaml:"terminal"`
	PrettyPrint  bool   `yaml:"pretty_print"`
}

// PipelineConfig tunes per-item processing.
type PipelineConfig struct {
	Workers int `yaml:"workers"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// WatchConfig controls re-running the load cycle when the source changes.
type WatchConfig struct {
	Enabled       bool `yaml:"enabled"`
	MinIntervalMs int  `yaml:"min_interval_ms"`
}

// GetMinInterval returns the minimum delay between two watch cycles.
func (w *WatchConfig) GetMinInterval() time.Duration {
	return time.Duration(w.MinIntervalMs) * time.Millisecond
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			File:       DefaultSourceFile,
			UserAgent:  "listingdeck/1.0",
			Window:     50,
			TimeoutSec: 30,
			MaxSizeKb:  64 * 1024,
		},
		Output: OutputConfig{
			HTMLPath:    "output/listings.html",
			Terminal:    true,
			PrettyPrint: true,
		},
		Pipeline: PipelineConfig{Workers: 1},
		Logging:  LoggingConfig{Level: "info"},
		Watch:    WatchConfig{MinIntervalMs: 500},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// a url without a file replaces the default file
	var keys struct {
		Source struct {
			File *string `yaml:"file"`
			URL  *string `yaml:"url"`
		} `yaml:"source"`
	}

	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if keys.Source.URL != nil && keys.Source.File == nil {
		cfg.Source.File = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFiles reads KEY=VALUE pairs from the given .env files into the
// process environment. Missing files are ignored; existing variables win.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}

	return nil
}

// ApplyEnv overrides settings from environment variables read through lookup
// (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSource); ok && v != "" {
		c.Source.SetSource(v)
	}

	if v, ok := lookup(EnvWindow); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvironmentInt, EnvWindow, v)
		}

		c.Source.Window = n
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = strings.ToLower(v)
	}

	if v, ok := lookup(EnvHTML); ok {
		c.Output.HTMLPath = v
	}

	if v, ok := lookup(EnvMarkdown); ok {
		c.Output.MarkdownPath = v
	}

	if v, ok := lookup(EnvChart); ok {
		c.Output.ChartPath = v
	}

	if v, ok := lookup(EnvJSON); ok {
		c.Output.JSONPath = v
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Source.File == "" && c.Source.URL == "" {
		return ErrMissingSource
	}

	if c.Source.File != "" && c.Source.URL != "" {
		return ErrConflictingSources
	}

	if c.Source.URL != "" && !utils.NewHTTPHelper(c.Source.UserAgent).IsValidURL(c.Source.URL) {
		return fmt.Errorf("%w: %s", ErrInvalidSourceURL, c.Source.URL)
	}

	if c.Source.Window < 1 {
		return ErrInvalidWindow
	}

	if c.Source.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Source.MaxSizeKb < 1 {
		return ErrInvalidMaxSize
	}

	if c.Pipeline.Workers < 1 {
		return ErrInvalidWorkers
	}

	if !c.Output.Terminal && c.Output.HTMLPath == "" && c.Output.MarkdownPath == "" &&
		c.Output.ChartPath == "" && c.Output.JSONPath == "" {
		return ErrNoOutputs
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Watch.MinIntervalMs < 0 {
		return ErrInvalidWatchInterval
	}

	if c.Watch.Enabled && !c.Source.IsLocalFile() {
		return ErrWatchRequiresFile
	}

	return nil
}

// IsURL reports whether source is an http or https URL.
func IsURL(source string) bool {
	lower := strings.ToLower(source)

	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Source: %s, Window: %d, Workers: %d, HTML: %s}",
		c.Source.GetSource(),
		c.Source.Window,
		c.Pipeline.Workers,
		c.Output.HTMLPath,
	)
}
