// Package config defines gauntlet configuration structures and loading hooks.
//
// Conventions:
//   - Provide New() initializer to build a Config with defaults.
//   - Load layers defaults, an optional YAML file and environment variables.
//   - Validate runs once every layer, CLI flags included, has been applied;
//     failures wrap ErrInvalidConfig.
package config

import (
	"time"
)

// DefaultSourceURL is the structured crew export of the DataCore site.
const DefaultSourceURL = "https://beta.datacore.app/structured/crew.json"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// SourceURL is the crew JSON endpoint.
	SourceURL string `koanf:"source_url"`

	// OutputPath is the CSV destination. Empty prints the table to stdout.
	OutputPath string `koanf:"output_path"`

	// TopN caps the number of reported rows. Zero reports only the header.
	TopN int `koanf:"top_n"`

	// TopPairs is how many of the best normalized pair rolls feed the score.
	TopPairs int `koanf:"top_pairs"`

	// HTTPTimeoutMS bounds the crew download.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`

	// UserAgent is sent with the download request when set.
	UserAgent string `koanf:"user_agent"`

	// MetricsPath, when set, receives a Prometheus textfile after each run.
	MetricsPath string `koanf:"metrics_path"`

	// MetricsNamespace prefixes every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		SourceURL:     DefaultSourceURL,
		OutputPath:    "top_crew.csv",
		TopN:          50,
		TopPairs:      3,
		HTTPTimeoutMS: 30_000,
		UserAgent:     "gauntlet/1.0",

		MetricsNamespace: "gauntlet",
	}
}

// HTTPTimeout returns HTTPTimeoutMS as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}
