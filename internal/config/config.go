package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains data directory configuration. The release database and the
// run lock both live under DataDir.
type Paths struct {
	DataDir string `toml:"data_dir"`
}

// Catalog points at the read-only beets library database that maps artist
// names to MusicBrainz identifiers.
type Catalog struct {
	BeetsDB string `toml:"beets_db"`
}

// MusicBrainz contains settings for the release-group browse client.
type MusicBrainz struct {
	BaseURL              string   `toml:"base_url"`
	UserAgent            string   `toml:"user_agent"`
	RateLimitMillis      int      `toml:"rate_limit_ms"`
	PageSize             int      `toml:"page_size"`
	MaxPages             int      `toml:"max_pages"`
	ReleaseWindowDays    int      `toml:"release_window_days"`
	DailyCheckLimit      int      `toml:"daily_check_limit"`
	IncludedReleaseTypes []string `toml:"included_release_types"`
	ExcludedReleaseTypes []string `toml:"excluded_release_types"`
}

// Ntfy contains push notification settings.
type Ntfy struct {
	Topic          string `toml:"topic"`
	Token          string `toml:"token"`
	RequestTimeout int    `toml:"request_timeout"`
}

// HealthCheck contains settings for the run start/result pings.
type HealthCheck struct {
	URL            string `toml:"url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for encore.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Catalog     Catalog     `toml:"catalog"`
	MusicBrainz MusicBrainz `toml:"musicbrainz"`
	Ntfy        Ntfy        `toml:"ntfy"`
	HealthCheck HealthCheck `toml:"healthcheck"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/encore/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("encore.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	dataDir, err := expandPath(c.Paths.DataDir)
	if err != nil {
		return fmt.Errorf("expand data_dir: %w", err)
	}
	c.Paths.DataDir = dataDir

	if c.Catalog.BeetsDB != "" {
		beetsDB, err := expandPath(c.Catalog.BeetsDB)
		if err != nil {
			return fmt.Errorf("expand beets_db: %w", err)
		}
		c.Catalog.BeetsDB = beetsDB
	}

	c.MusicBrainz.BaseURL = strings.TrimRight(strings.TrimSpace(c.MusicBrainz.BaseURL), "/")
	c.Ntfy.Topic = strings.TrimSpace(c.Ntfy.Topic)
	c.HealthCheck.URL = strings.TrimRight(strings.TrimSpace(c.HealthCheck.URL), "/")

	if c.Ntfy.Token == "" {
		c.Ntfy.Token = strings.TrimSpace(os.Getenv("ENCORE_NTFY_TOKEN"))
	}
	return nil
}

// EnsureDirectories creates the data directory the store and run lock need.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.DataDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.DataDir, err)
	}
	return nil
}

// DatabasePath returns the location of the release database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "encore.db")
}

// LockPath returns the location of the run lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "encore.lock")
}

// CreateSample writes the embedded sample configuration to the given path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves ~ and environment variables in a filesystem path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, path[2:])
		}
	}
	return filepath.Abs(path)
}
