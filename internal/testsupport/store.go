package testsupport

import (
	"context"
	"testing"

	"encore/internal/config"
	"encore/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustUpsertArtist seeds a catalog artist and returns its row.
func MustUpsertArtist(t testing.TB, st *store.Store, name, mbid string) *store.Artist {
	t.Helper()

	ctx := context.Background()
	if _, err := st.UpsertArtistFromCatalog(ctx, name, mbid); err != nil {
		t.Fatalf("UpsertArtistFromCatalog: %v", err)
	}
	artist, err := st.GetArtistByName(ctx, name)
	if err != nil {
		t.Fatalf("GetArtistByName: %v", err)
	}
	if artist == nil {
		t.Fatalf("artist %q missing after upsert", name)
	}
	return artist
}
