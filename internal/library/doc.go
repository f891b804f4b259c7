// Package library reads artist identifiers out of a beets library database.
//
// The catalog is strictly read-only (the connection is opened with mode=ro)
// and owns nothing: beets manages the library, encore only consumes the
// albumartist to MusicBrainz identifier mapping during reconciliation.
package library
