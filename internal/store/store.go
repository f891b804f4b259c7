package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"encore/internal/config"
)

// Store manages artist and release persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the release database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Stats summarizes the tracked roster and discovered releases.
type Stats struct {
	Artists        int
	IgnoredArtists int
	Releases       int
	Unnotified     int
}

// Stats returns row counts used for run logging.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	row := s.db.QueryRowContext(ctx, `SELECT
        COUNT(1),
        COALESCE(SUM(ignored), 0)
        FROM artists`)
	if err := row.Scan(&stats.Artists, &stats.IgnoredArtists); err != nil {
		return Stats{}, fmt.Errorf("artist stats: %w", err)
	}
	row = s.db.QueryRowContext(ctx, `SELECT
        COUNT(1),
        COALESCE(SUM(CASE WHEN notified = 0 THEN 1 ELSE 0 END), 0)
        FROM releases`)
	if err := row.Scan(&stats.Releases, &stats.Unnotified); err != nil {
		return Stats{}, fmt.Errorf("release stats: %w", err)
	}
	return stats, nil
}
