// Package runner orchestrates one discovery run end to end: acquire the run
// lock, reconcile the roster from the catalog, check due artists against
// MusicBrainz, persist what was found, then notify.
//
// Persist-then-notify is the load-bearing ordering. A release is recorded
// before any send is attempted and marked notified immediately after its send
// succeeds, so a crash at any point either re-sends nothing or re-sends only
// releases whose delivery was never confirmed.
package runner
