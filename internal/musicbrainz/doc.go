// Package musicbrainz fetches release groups for an artist from the
// MusicBrainz web service.
//
// All requests flow through one shared rate limiter so concurrent callers
// cannot exceed the service's courtesy rate. Pagination, date normalization
// and release-type filtering happen here; callers only ever see normalized
// Release values dated within the requested window.
package musicbrainz
