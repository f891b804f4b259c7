package store

import "time"

// Origin distinguishes how an artist's MusicBrainz identifier was obtained.
type Origin string

const (
	// OriginCatalog marks identifiers sourced from the authoritative catalog sync.
	OriginCatalog Origin = "catalog"
	// OriginManual marks identifiers registered by hand (legacy rows included).
	OriginManual Origin = "manual"
)

// Artist is a tracked catalog artist with its check cursor.
type Artist struct {
	ID            int64
	Name          string
	MBID          string
	Origin        Origin
	Ignored       bool
	LastCheckedAt *time.Time
	CheckCount    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Release is a discovered release group for a tracked artist.
type Release struct {
	ID           int64
	ArtistID     int64
	ArtistName   string
	GroupID      string
	Title        string
	Type         string
	ReleaseDate  string
	Notified     bool
	DiscoveredAt time.Time
	NotifiedAt   *time.Time
}

// UpsertResult reports the three-way outcome of a catalog upsert so the
// reconciler can count changes without re-querying.
type UpsertResult int

const (
	UpsertUnchanged UpsertResult = iota
	UpsertUpdated
	UpsertInserted
)

// Changed reports whether the upsert modified the stored row.
func (r UpsertResult) Changed() bool {
	return r != UpsertUnchanged
}

func (r UpsertResult) String() string {
	switch r {
	case UpsertInserted:
		return "inserted"
	case UpsertUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}
