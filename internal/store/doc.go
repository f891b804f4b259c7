// Package store persists the tracked artist roster and discovered releases in
// SQLite.
//
// The Store owns the database connection, schema migrations, the check cursor
// that schedules artists across runs, and the idempotent insert semantics the
// runner depends on: an artist name maps to at most one row (case-insensitive
// match, case-preserving storage) and a (artist, release group) pair is
// recorded at most once, enforced by uniqueness constraints in the schema
// rather than application logic.
//
// Schema changes are additive only: new columns arrive in numbered migrations
// with NULL defaults so databases created by older versions keep working.
package store
