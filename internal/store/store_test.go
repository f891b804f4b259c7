package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"encore/internal/store"
	"encore/internal/testsupport"
)

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestUpsertArtistFromCatalogThreeWay(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	result, err := st.UpsertArtistFromCatalog(ctx, "Example Band", "abc-123")
	if err != nil {
		t.Fatalf("UpsertArtistFromCatalog: %v", err)
	}
	if result != store.UpsertInserted {
		t.Fatalf("expected inserted, got %s", result)
	}

	result, err = st.UpsertArtistFromCatalog(ctx, "Example Band", "abc-123")
	if err != nil {
		t.Fatalf("UpsertArtistFromCatalog repeat: %v", err)
	}
	if result != store.UpsertUnchanged {
		t.Fatalf("expected unchanged on identical upsert, got %s", result)
	}

	result, err = st.UpsertArtistFromCatalog(ctx, "Example Band", "def-456")
	if err != nil {
		t.Fatalf("UpsertArtistFromCatalog new id: %v", err)
	}
	if result != store.UpsertUpdated {
		t.Fatalf("expected updated on identifier change, got %s", result)
	}

	artist, err := st.GetArtistByName(ctx, "example band")
	if err != nil {
		t.Fatalf("GetArtistByName: %v", err)
	}
	if artist == nil {
		t.Fatal("expected case-insensitive lookup to find artist")
	}
	if artist.Name != "Example Band" {
		t.Fatalf("expected stored casing preserved, got %q", artist.Name)
	}
	if artist.MBID != "def-456" || artist.Origin != store.OriginCatalog {
		t.Fatalf("unexpected artist state: %+v", artist)
	}
}

func TestUpsertPromotesManualRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := st.AddArtistManual(ctx, "Example Band", "old-id"); err != nil {
		t.Fatalf("AddArtistManual: %v", err)
	}

	// Catalog sync always wins, even when the identifier matches.
	result, err := st.UpsertArtistFromCatalog(ctx, "Example Band", "old-id")
	if err != nil {
		t.Fatalf("UpsertArtistFromCatalog: %v", err)
	}
	if result != store.UpsertUpdated {
		t.Fatalf("expected manual row promotion to report updated, got %s", result)
	}

	artist, err := st.GetArtistByName(ctx, "Example Band")
	if err != nil {
		t.Fatalf("GetArtistByName: %v", err)
	}
	if artist.Origin != store.OriginCatalog {
		t.Fatalf("expected catalog origin after promotion, got %s", artist.Origin)
	}
}

func TestUpsertRejectsEmptyIdentifier(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if _, err := st.UpsertArtistFromCatalog(context.Background(), "Example Band", "  "); err == nil {
		t.Fatal("expected error for empty identifier")
	}
}

func TestAddArtistManualIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	created, err := st.AddArtistManual(ctx, "Solo Act", "")
	if err != nil {
		t.Fatalf("AddArtistManual: %v", err)
	}
	if !created {
		t.Fatal("expected first add to create a row")
	}
	created, err = st.AddArtistManual(ctx, "solo act", "")
	if err != nil {
		t.Fatalf("AddArtistManual repeat: %v", err)
	}
	if created {
		t.Fatal("expected case-insensitive duplicate to be ignored")
	}
}

func TestSelectArtistsDueOrdering(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	beta := testsupport.MustUpsertArtist(t, st, "Beta", "id-beta")
	testsupport.MustUpsertArtist(t, st, "Alpha", "id-alpha")
	testsupport.MustUpsertArtist(t, st, "Gamma", "id-gamma")

	// Beta has been checked before; it must sort after the never-checked pair.
	if err := st.MarkChecked(ctx, beta.ID); err != nil {
		t.Fatalf("MarkChecked: %v", err)
	}

	due, err := st.SelectArtistsDue(ctx, 10)
	if err != nil {
		t.Fatalf("SelectArtistsDue: %v", err)
	}
	if len(due) != 3 {
		t.Fatalf("expected 3 due artists, got %d", len(due))
	}
	if due[0].Name != "Alpha" || due[1].Name != "Gamma" || due[2].Name != "Beta" {
		names := []string{due[0].Name, due[1].Name, due[2].Name}
		t.Fatalf("unexpected due order: %v", names)
	}

	due, err = st.SelectArtistsDue(ctx, 1)
	if err != nil {
		t.Fatalf("SelectArtistsDue limited: %v", err)
	}
	if len(due) != 1 || due[0].Name != "Alpha" {
		t.Fatalf("expected limit to keep staleness order, got %+v", due)
	}
}

func TestSelectArtistsDueSkipsIgnored(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustUpsertArtist(t, st, "Keep", "id-keep")
	testsupport.MustUpsertArtist(t, st, "Skip", "id-skip")

	matched, err := st.SetIgnored(ctx, "skip", true)
	if err != nil {
		t.Fatalf("SetIgnored: %v", err)
	}
	if !matched {
		t.Fatal("expected ignore to match an artist")
	}

	due, err := st.SelectArtistsDue(ctx, 10)
	if err != nil {
		t.Fatalf("SelectArtistsDue: %v", err)
	}
	if len(due) != 1 || due[0].Name != "Keep" {
		t.Fatalf("expected ignored artist excluded, got %+v", due)
	}
}

func TestMarkCheckedAdvancesCursor(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	artist := testsupport.MustUpsertArtist(t, st, "Example Band", "abc-123")
	if artist.LastCheckedAt != nil || artist.CheckCount != 0 {
		t.Fatalf("expected fresh cursor, got %+v", artist)
	}

	if err := st.MarkChecked(ctx, artist.ID); err != nil {
		t.Fatalf("MarkChecked: %v", err)
	}
	updated, err := st.GetArtistByName(ctx, "Example Band")
	if err != nil {
		t.Fatalf("GetArtistByName: %v", err)
	}
	if updated.LastCheckedAt == nil || updated.CheckCount != 1 {
		t.Fatalf("expected cursor advanced, got %+v", updated)
	}
}

func TestRecordReleaseIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	artist := testsupport.MustUpsertArtist(t, st, "Example Band", "abc-123")
	input := store.ReleaseInput{GroupID: "r1", Title: "New LP", Type: "Album", Date: date("2024-06-01")}

	created, err := st.RecordRelease(ctx, artist.ID, input)
	if err != nil {
		t.Fatalf("RecordRelease: %v", err)
	}
	if !created {
		t.Fatal("expected first record to create a row")
	}

	created, err = st.RecordRelease(ctx, artist.ID, input)
	if err != nil {
		t.Fatalf("RecordRelease repeat: %v", err)
	}
	if created {
		t.Fatal("expected identical re-discovery to be a no-op")
	}

	releases, err := st.ListReleases(ctx, false)
	if err != nil {
		t.Fatalf("ListReleases: %v", err)
	}
	if len(releases) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(releases))
	}
	if releases[0].ReleaseDate != "2024-06-01" || releases[0].ArtistName != "Example Band" {
		t.Fatalf("unexpected release row: %+v", releases[0])
	}
}

func TestSelectUnnotifiedAndMarkNotified(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	artist := testsupport.MustUpsertArtist(t, st, "Example Band", "abc-123")
	for i := 0; i < 3; i++ {
		input := store.ReleaseInput{
			GroupID: fmt.Sprintf("r%d", i),
			Title:   fmt.Sprintf("Release %d", i),
			Type:    "Album",
			Date:    date("2024-06-01"),
		}
		if _, err := st.RecordRelease(ctx, artist.ID, input); err != nil {
			t.Fatalf("RecordRelease: %v", err)
		}
	}

	unnotified, err := st.SelectUnnotified(ctx)
	if err != nil {
		t.Fatalf("SelectUnnotified: %v", err)
	}
	if len(unnotified) != 3 {
		t.Fatalf("expected 3 unnotified, got %d", len(unnotified))
	}
	if unnotified[0].GroupID != "r0" {
		t.Fatalf("expected discovery order, got %q first", unnotified[0].GroupID)
	}

	if err := st.MarkNotified(ctx, unnotified[0].ID); err != nil {
		t.Fatalf("MarkNotified: %v", err)
	}
	// Idempotent: repeating must not error or reset the timestamp.
	if err := st.MarkNotified(ctx, unnotified[0].ID); err != nil {
		t.Fatalf("MarkNotified repeat: %v", err)
	}

	remaining, err := st.SelectUnnotified(ctx)
	if err != nil {
		t.Fatalf("SelectUnnotified after mark: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 remaining, got %d", len(remaining))
	}

	all, err := st.ListReleases(ctx, false)
	if err != nil {
		t.Fatalf("ListReleases: %v", err)
	}
	for _, release := range all {
		if release.GroupID == "r0" {
			if !release.Notified || release.NotifiedAt == nil {
				t.Fatalf("expected r0 notified with timestamp, got %+v", release)
			}
		}
	}
}

func TestStatsCountsRoster(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	artist := testsupport.MustUpsertArtist(t, st, "Example Band", "abc-123")
	testsupport.MustUpsertArtist(t, st, "Other", "def-456")
	if _, err := st.SetIgnored(ctx, "Other", true); err != nil {
		t.Fatalf("SetIgnored: %v", err)
	}
	if _, err := st.RecordRelease(ctx, artist.ID, store.ReleaseInput{GroupID: "r1", Title: "New LP", Date: date("2024-06-01")}); err != nil {
		t.Fatalf("RecordRelease: %v", err)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := store.Stats{Artists: 2, IgnoredArtists: 1, Releases: 1, Unnotified: 1}
	if stats != want {
		t.Fatalf("unexpected stats %+v, want %+v", stats, want)
	}
}

func TestReopenPreservesRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	artist := testsupport.MustUpsertArtist(t, st, "Example Band", "abc-123")
	if _, err := st.RecordRelease(ctx, artist.ID, store.ReleaseInput{GroupID: "r1", Title: "New LP", Date: date("2024-06-01")}); err != nil {
		t.Fatalf("RecordRelease: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	releases, err := reopened.ListReleases(ctx, false)
	if err != nil {
		t.Fatalf("ListReleases: %v", err)
	}
	if len(releases) != 1 {
		t.Fatalf("expected persisted release after reopen, got %d", len(releases))
	}
}

func TestConcurrentNameLookups(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustUpsertArtist(t, st, "Example Band", "abc-123")

	// Name folding happens on every lookup; concurrent readers must not
	// share folding state.
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			artist, err := st.GetArtistByName(ctx, "EXAMPLE band")
			if err != nil {
				errs <- err
				return
			}
			if artist == nil || artist.MBID != "abc-123" {
				errs <- fmt.Errorf("lookup returned %+v", artist)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent lookup: %v", err)
	}
}
