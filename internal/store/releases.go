package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReleaseInput carries one normalized release from the client boundary.
type ReleaseInput struct {
	GroupID string
	Title   string
	Type    string
	Date    time.Time
}

// RecordRelease inserts a discovered release if the (artist, release group)
// pair is absent and reports whether a row was newly created. Re-discovery of
// the same pair is a no-op; the uniqueness constraint enforces this at the
// storage layer so overlapping runs cannot duplicate a release either.
func (s *Store) RecordRelease(ctx context.Context, artistID int64, input ReleaseInput) (bool, error) {
	groupID := strings.TrimSpace(input.GroupID)
	if groupID == "" {
		return false, errors.New("release group id must not be empty")
	}
	if strings.TrimSpace(input.Title) == "" {
		return false, errors.New("release title must not be empty")
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO releases
         (artist_id, mb_release_group_id, title, release_type, release_date, discovered_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		artistID,
		groupID,
		input.Title,
		nullableString(strings.TrimSpace(input.Type)),
		input.Date.Format("2006-01-02"),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("record release: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// SelectUnnotified returns releases awaiting notification joined with artist
// names, in discovery order.
func (s *Store) SelectUnnotified(ctx context.Context) ([]*Release, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+releaseColumns+` FROM releases r
         JOIN artists a ON a.id = r.artist_id
         WHERE r.notified = 0
         ORDER BY r.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select unnotified: %w", err)
	}
	defer rows.Close()

	var releases []*Release
	for rows.Next() {
		release, err := scanRelease(rows)
		if err != nil {
			return nil, err
		}
		releases = append(releases, release)
	}
	return releases, rows.Err()
}

// MarkNotified flips the notified flag for a release. Idempotent.
func (s *Store) MarkNotified(ctx context.Context, releaseID int64) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE releases SET notified = 1, notified_at = COALESCE(notified_at, ?) WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		releaseID,
	)
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}

// ListReleases returns discovered releases in discovery order, optionally
// restricted to those awaiting notification.
func (s *Store) ListReleases(ctx context.Context, onlyUnnotified bool) ([]*Release, error) {
	query := `SELECT ` + releaseColumns + ` FROM releases r
         JOIN artists a ON a.id = r.artist_id`
	if onlyUnnotified {
		query += ` WHERE r.notified = 0`
	}
	query += ` ORDER BY r.id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	defer rows.Close()

	var releases []*Release
	for rows.Next() {
		release, err := scanRelease(rows)
		if err != nil {
			return nil, err
		}
		releases = append(releases, release)
	}
	return releases, rows.Err()
}
