package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UpsertArtistFromCatalog reconciles one catalog entry into the roster.
// Missing artists are inserted with catalog origin. Existing rows are left
// alone only when they already carry the same identifier from a catalog sync;
// manual rows are always overwritten and promoted, the catalog wins.
func (s *Store) UpsertArtistFromCatalog(ctx context.Context, name, mbid string) (UpsertResult, error) {
	name = strings.TrimSpace(name)
	mbid = strings.TrimSpace(mbid)
	if name == "" {
		return UpsertUnchanged, errors.New("artist name must not be empty")
	}
	if mbid == "" {
		return UpsertUnchanged, errors.New("artist mbid must not be empty")
	}

	existing, err := s.GetArtistByName(ctx, name)
	if err != nil {
		return UpsertUnchanged, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if existing == nil {
		_, err := s.db.ExecContext(
			ctx,
			`INSERT INTO artists (name, name_fold, mbid, mbid_origin, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?)`,
			name, foldName(name), mbid, string(OriginCatalog), now, now,
		)
		if err != nil {
			return UpsertUnchanged, fmt.Errorf("insert artist: %w", err)
		}
		return UpsertInserted, nil
	}

	if existing.Origin == OriginCatalog && existing.MBID == mbid {
		return UpsertUnchanged, nil
	}

	_, err = s.db.ExecContext(
		ctx,
		`UPDATE artists SET mbid = ?, mbid_origin = ?, updated_at = ? WHERE id = ?`,
		mbid, string(OriginCatalog), now, existing.ID,
	)
	if err != nil {
		return UpsertUnchanged, fmt.Errorf("update artist: %w", err)
	}
	return UpsertUpdated, nil
}

// AddArtistManual registers an artist outside the catalog sync. The identifier
// may be empty; such artists are skipped at check time until a sync fills it.
// Returns false when the artist already exists.
func (s *Store) AddArtistManual(ctx context.Context, name, mbid string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, errors.New("artist name must not be empty")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO artists (name, name_fold, mbid, mbid_origin, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		name, foldName(name), nullableString(strings.TrimSpace(mbid)), string(OriginManual), now, now,
	)
	if err != nil {
		return false, fmt.Errorf("insert manual artist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// GetArtistByName fetches an artist by case-insensitive name match.
// Returns nil when no artist matches.
func (s *Store) GetArtistByName(ctx context.Context, name string) (*Artist, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+artistColumns+` FROM artists WHERE name_fold = ?`,
		foldName(strings.TrimSpace(name)),
	)
	artist, err := scanArtist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return artist, nil
}

// SelectArtistsDue returns up to limit non-ignored artists ordered by check
// staleness. Never-checked artists sort first; name breaks ties so repeated
// runs select deterministically.
func (s *Store) SelectArtistsDue(ctx context.Context, limit int) ([]*Artist, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+artistColumns+` FROM artists
         WHERE ignored = 0
         ORDER BY last_checked_at ASC, name_fold ASC
         LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select due artists: %w", err)
	}
	defer rows.Close()

	var artists []*Artist
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	return artists, rows.Err()
}

// MarkChecked advances the artist's check cursor. Called once per attempt,
// success or failure, so a failing artist does not monopolize future runs.
func (s *Store) MarkChecked(ctx context.Context, artistID int64) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE artists SET last_checked_at = ?, check_count = check_count + 1, updated_at = ? WHERE id = ?`,
		now, now, artistID,
	)
	if err != nil {
		return fmt.Errorf("mark checked: %w", err)
	}
	return nil
}

// SetIgnored flips the ignore flag for an artist by case-insensitive name.
// Returns false when no artist matches.
func (s *Store) SetIgnored(ctx context.Context, name string, ignored bool) (bool, error) {
	flag := 0
	if ignored {
		flag = 1
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE artists SET ignored = ?, updated_at = ? WHERE name_fold = ?`,
		flag, time.Now().UTC().Format(time.RFC3339Nano), foldName(strings.TrimSpace(name)),
	)
	if err != nil {
		return false, fmt.Errorf("set ignored: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListArtists returns the full roster ordered by name.
func (s *Store) ListArtists(ctx context.Context) ([]*Artist, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+artistColumns+` FROM artists ORDER BY name_fold`)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	var artists []*Artist
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	return artists, rows.Err()
}
