package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"encore/internal/services"
)

// Catalog provides read-only access to a beets library database for
// artist-to-MusicBrainz-identifier lookups.
type Catalog struct {
	db *sql.DB
}

// Open connects to the beets database in read-only mode. A missing database
// file is a setup error; there is no roster to reconcile without it.
func Open(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrSetup, "library", "open", "beets database path not configured", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, services.Wrap(services.ErrSetup, "library", "open", fmt.Sprintf("beets database not found at %s", path), err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, services.Wrap(services.ErrSetup, "library", "open", "open beets database", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, services.Wrap(services.ErrSetup, "library", "open", "ping beets database", err)
	}
	return &Catalog{db: db}, nil
}

// Close releases the database connection.
func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// ListArtistsWithIDs returns every album artist that carries a MusicBrainz
// identifier, keyed by name. When the same identifier appears under several
// spellings the first row wins; the store folds names on its side anyway.
func (c *Catalog) ListArtistsWithIDs(ctx context.Context) (map[string]string, error) {
	rows, err := c.db.QueryContext(
		ctx,
		`SELECT DISTINCT albumartist, mb_albumartistid
         FROM albums
         WHERE mb_albumartistid IS NOT NULL AND mb_albumartistid != ''
         GROUP BY mb_albumartistid`,
	)
	if err != nil {
		return nil, fmt.Errorf("list catalog artists: %w", err)
	}
	defer rows.Close()

	artists := make(map[string]string)
	for rows.Next() {
		var name, mbid string
		if err := rows.Scan(&name, &mbid); err != nil {
			return nil, fmt.Errorf("scan catalog artist: %w", err)
		}
		if strings.TrimSpace(name) == "" {
			continue
		}
		artists[name] = mbid
	}
	return artists, rows.Err()
}

// LookupArtist returns the MusicBrainz identifier for an artist by
// case-insensitive name match. The second return reports whether a match
// with an identifier exists.
func (c *Catalog) LookupArtist(ctx context.Context, name string) (string, bool, error) {
	row := c.db.QueryRowContext(
		ctx,
		`SELECT mb_albumartistid
         FROM albums
         WHERE LOWER(albumartist) = LOWER(?)
         AND mb_albumartistid IS NOT NULL AND mb_albumartistid != ''
         LIMIT 1`,
		name,
	)
	var mbid string
	err := row.Scan(&mbid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup catalog artist: %w", err)
	}
	return mbid, true, nil
}
