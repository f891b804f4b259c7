// Package roster reconciles the catalog's artist snapshot into the release
// store. The catalog is the authority for identifiers; the store keeps
// per-artist check state that reconciliation must never disturb.
package roster
