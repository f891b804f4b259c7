package store

import (
	"database/sql"
	"errors"
	"time"

	"golang.org/x/text/cases"
)

// foldName produces the case-insensitive match key for an artist name.
// Storage keeps the original casing; every lookup folds its input the same
// way. A Caser is stateful and not safe for concurrent use, so each call
// gets its own.
func foldName(name string) string {
	return cases.Fold().String(name)
}

const artistColumns = "id, name, mbid, mbid_origin, ignored, last_checked_at, check_count, created_at, updated_at"

func scanArtist(scanner interface{ Scan(dest ...any) error }) (*Artist, error) {
	var (
		id          int64
		name        string
		mbid        sql.NullString
		origin      string
		ignored     int
		lastChecked sql.NullString
		checkCount  int
		createdRaw  string
		updatedRaw  string
	)

	if err := scanner.Scan(&id, &name, &mbid, &origin, &ignored, &lastChecked, &checkCount, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	artist := &Artist{
		ID:         id,
		Name:       name,
		MBID:       mbid.String,
		Origin:     Origin(origin),
		Ignored:    ignored != 0,
		CheckCount: checkCount,
	}
	if lastChecked.Valid {
		if t, err := parseTimeString(lastChecked.String); err == nil {
			artist.LastCheckedAt = &t
		}
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		artist.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		artist.UpdatedAt = updated
	}
	return artist, nil
}

const releaseColumns = "r.id, r.artist_id, a.name, r.mb_release_group_id, r.title, r.release_type, r.release_date, r.notified, r.discovered_at, r.notified_at"

func scanRelease(scanner interface{ Scan(dest ...any) error }) (*Release, error) {
	var (
		id            int64
		artistID      int64
		artistName    string
		groupID       string
		title         string
		releaseType   sql.NullString
		releaseDate   sql.NullString
		notified      int
		discoveredRaw string
		notifiedRaw   sql.NullString
	)

	if err := scanner.Scan(&id, &artistID, &artistName, &groupID, &title, &releaseType, &releaseDate, &notified, &discoveredRaw, &notifiedRaw); err != nil {
		return nil, err
	}

	release := &Release{
		ID:          id,
		ArtistID:    artistID,
		ArtistName:  artistName,
		GroupID:     groupID,
		Title:       title,
		Type:        releaseType.String,
		ReleaseDate: releaseDate.String,
		Notified:    notified != 0,
	}
	if discovered, err := parseTimeString(discoveredRaw); err == nil {
		release.DiscoveredAt = discovered
	}
	if notifiedRaw.Valid {
		if t, err := parseTimeString(notifiedRaw.String); err == nil {
			release.NotifiedAt = &t
		}
	}
	return release, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
