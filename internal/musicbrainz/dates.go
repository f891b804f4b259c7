package musicbrainz

import (
	"errors"
	"time"
)

// releaseDateLayouts are the three precisions MusicBrainz emits, tried most
// specific first. Partial dates promote to the first day of the period.
var releaseDateLayouts = []string{"2006-01-02", "2006-01", "2006"}

var errUnparseableDate = errors.New("unparseable release date")

// ParseReleaseDate normalizes a MusicBrainz first-release-date string to a
// calendar date. Year-only and year-month inputs map to the first day of the
// year or month respectively.
func ParseReleaseDate(value string) (time.Time, error) {
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errUnparseableDate
}
