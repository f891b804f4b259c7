// Package services defines the shared error taxonomy for run classification.
//
// Components tag failures with one of the exported sentinel errors via Wrap so
// the runner and CLI can decide between aborting the run (setup, reconcile)
// and logging-and-continuing (transient fetch, malformed record, failed send)
// with plain errors.Is checks.
package services
