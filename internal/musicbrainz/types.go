package musicbrainz

import "time"

// Release is a normalized release group as seen by the rest of the system.
// Raw API payloads never leave this package.
type Release struct {
	GroupID string
	Title   string
	Type    string
	Date    time.Time
	RawDate string
}

// releaseGroup models one record of the MusicBrainz browse response.
type releaseGroup struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	PrimaryType      string `json:"primary-type"`
	FirstReleaseDate string `json:"first-release-date"`
}

// browseResponse models the paginated release-group browse payload.
type browseResponse struct {
	ReleaseGroups []releaseGroup `json:"release-groups"`
	Count         int            `json:"release-group-count"`
	Offset        int            `json:"release-group-offset"`
}
