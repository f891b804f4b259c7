package roster

import (
	"context"
	"fmt"
	"sort"

	"encore/internal/store"
)

// Upserter applies one catalog entry to the roster. *store.Store satisfies it.
type Upserter interface {
	UpsertArtistFromCatalog(ctx context.Context, name, mbid string) (store.UpsertResult, error)
}

// Reconcile applies a catalog snapshot (artist name to MusicBrainz identifier)
// to the roster and returns how many rows were inserted or updated. Names are
// processed in sorted order so logs and counts are stable across runs. An
// empty snapshot is valid and reconciles to zero changes.
//
// The snapshot is authoritative for identifiers but reconciliation never
// removes roster rows: artists absent from the snapshot keep their state.
func Reconcile(ctx context.Context, snapshot map[string]string, upserter Upserter) (int, error) {
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	changed := 0
	for _, name := range names {
		result, err := upserter.UpsertArtistFromCatalog(ctx, name, snapshot[name])
		if err != nil {
			return changed, fmt.Errorf("reconcile %q: %w", name, err)
		}
		if result.Changed() {
			changed++
		}
	}
	return changed, nil
}
