package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment names understood by Load.
const (
	EnvPrefix     = "GAUNTLET_"
	EnvConfigFile = "GAUNTLET_CONFIG"
)

// maxPairs is the number of unordered pairs of the six skills.
const maxPairs = 15

var metricNamespace = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GAUNTLET_CONFIG is set
//  3. env (prefix GAUNTLET_)
//
// The result is not validated so that CLI flags can still override it; call
// Validate once every layer has been applied.
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// GAUNTLET_TOP_N -> top_n (flat keys, underscores preserved).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	return &cfg, nil
}

// Validate checks the values a run depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SourceURL) == "" {
		return fmt.Errorf("%w: source_url must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.SourceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: source_url must be an absolute http(s) URL: %q", ErrInvalidConfig, c.SourceURL)
	}
	if c.TopN < 0 {
		return fmt.Errorf("%w: top_n must not be negative, got %d", ErrInvalidConfig, c.TopN)
	}
	if c.TopPairs < 1 || c.TopPairs > maxPairs {
		return fmt.Errorf("%w: top_pairs must be between 1 and %d, got %d", ErrInvalidConfig, maxPairs, c.TopPairs)
	}
	if c.HTTPTimeoutMS <= 0 {
		return fmt.Errorf("%w: http_timeout_ms must be positive, got %d", ErrInvalidConfig, c.HTTPTimeoutMS)
	}
	if !metricNamespace.MatchString(c.MetricsNamespace) {
		return fmt.Errorf("%w: metrics_namespace must be a valid metric name prefix: %q", ErrInvalidConfig, c.MetricsNamespace)
	}
	return nil
}
