package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateMusicBrainz(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.BeetsDB) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/encore/config.toml"
		}
		return fmt.Errorf("catalog.beets_db is required. Edit %s (create with 'encore config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateMusicBrainz() error {
	if c.MusicBrainz.BaseURL == "" {
		return errors.New("musicbrainz.base_url must be set")
	}
	if strings.TrimSpace(c.MusicBrainz.UserAgent) == "" {
		return errors.New("musicbrainz.user_agent must be set")
	}
	return ensurePositiveMap(map[string]int{
		"musicbrainz.rate_limit_ms":       c.MusicBrainz.RateLimitMillis,
		"musicbrainz.page_size":           c.MusicBrainz.PageSize,
		"musicbrainz.max_pages":           c.MusicBrainz.MaxPages,
		"musicbrainz.release_window_days": c.MusicBrainz.ReleaseWindowDays,
		"musicbrainz.daily_check_limit":   c.MusicBrainz.DailyCheckLimit,
	})
}

func (c *Config) validateTimeouts() error {
	return ensurePositiveMap(map[string]int{
		"ntfy.request_timeout":        c.Ntfy.RequestTimeout,
		"healthcheck.request_timeout": c.HealthCheck.RequestTimeout,
	})
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive, got %d", key, values[key])
		}
	}
	return nil
}
