package testsupport

import (
	"path/filepath"
	"testing"

	"encore/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Catalog.BeetsDB = filepath.Join(base, "musiclibrary.db")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithNtfyTopic sets the ntfy topic on the test config.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Ntfy.Topic = topic
	}
}

// WithCheckLimit overrides the per-run artist cap on the test config.
func WithCheckLimit(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.MusicBrainz.DailyCheckLimit = limit
	}
}
