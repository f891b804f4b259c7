package musicbrainz_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"encore/internal/musicbrainz"
	"encore/internal/services"
)

type fakeGroup struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	PrimaryType      string `json:"primary-type"`
	FirstReleaseDate string `json:"first-release-date"`
}

// serveGroups returns a test server that pages through the given records
// honoring the offset and limit query parameters.
func serveGroups(t *testing.T, groups []fakeGroup, requests *atomic.Int64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		if got := r.Header.Get("User-Agent"); got != "encore-test/1.0" {
			t.Errorf("unexpected user agent %q", got)
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		end := offset + limit
		if offset > len(groups) {
			offset = len(groups)
		}
		if end > len(groups) {
			end = len(groups)
		}
		payload := map[string]any{
			"release-groups":       groups[offset:end],
			"release-group-count":  len(groups),
			"release-group-offset": offset,
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode payload: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T, baseURL string, opts ...musicbrainz.Option) *musicbrainz.Client {
	t.Helper()
	opts = append([]musicbrainz.Option{musicbrainz.WithRateLimit(time.Millisecond)}, opts...)
	client, err := musicbrainz.New(baseURL, "encore-test/1.0", opts...)
	if err != nil {
		t.Fatalf("musicbrainz.New: %v", err)
	}
	return client
}

func recentDate(daysAgo int) string {
	return time.Now().UTC().AddDate(0, 0, -daysAgo).Format("2006-01-02")
}

func TestFetchStopsOnShortPage(t *testing.T) {
	groups := make([]fakeGroup, 0, 7)
	for i := 0; i < 7; i++ {
		groups = append(groups, fakeGroup{
			ID:               fmt.Sprintf("rg-%d", i),
			Title:            fmt.Sprintf("Release %d", i),
			PrimaryType:      "Album",
			FirstReleaseDate: recentDate(i),
		})
	}
	var requests atomic.Int64
	server := serveGroups(t, groups, &requests)

	client := newClient(t, server.URL, musicbrainz.WithPageSize(3))
	releases, err := client.FetchRecentReleases(context.Background(), "abc-123", 30)
	if err != nil {
		t.Fatalf("FetchRecentReleases: %v", err)
	}
	if len(releases) != 7 {
		t.Fatalf("expected 7 releases, got %d", len(releases))
	}
	// Pages of 3, 3, 1: the short final page ends the walk.
	if got := requests.Load(); got != 3 {
		t.Fatalf("expected 3 requests, got %d", got)
	}
}

func TestFetchHonorsMaxPages(t *testing.T) {
	groups := make([]fakeGroup, 0, 10)
	for i := 0; i < 10; i++ {
		groups = append(groups, fakeGroup{
			ID:               fmt.Sprintf("rg-%d", i),
			Title:            fmt.Sprintf("Release %d", i),
			PrimaryType:      "Album",
			FirstReleaseDate: recentDate(1),
		})
	}
	var requests atomic.Int64
	server := serveGroups(t, groups, &requests)

	client := newClient(t, server.URL, musicbrainz.WithPageSize(2), musicbrainz.WithMaxPages(3))
	releases, err := client.FetchRecentReleases(context.Background(), "abc-123", 30)
	if err != nil {
		t.Fatalf("FetchRecentReleases: %v", err)
	}
	if len(releases) != 6 {
		t.Fatalf("expected 6 releases from 3 capped pages, got %d", len(releases))
	}
	if got := requests.Load(); got != 3 {
		t.Fatalf("expected 3 requests, got %d", got)
	}
}

func TestFetchNormalizesAndFilters(t *testing.T) {
	groups := []fakeGroup{
		{ID: "keep-full", Title: "Full Date", PrimaryType: "Album", FirstReleaseDate: recentDate(2)},
		{ID: "keep-month", Title: "Month Date", PrimaryType: "EP", FirstReleaseDate: time.Now().UTC().Format("2006-01")},
		{ID: "drop-old", Title: "Too Old", PrimaryType: "Album", FirstReleaseDate: "1999-01-01"},
		{ID: "drop-nodate", Title: "No Date", PrimaryType: "Album", FirstReleaseDate: ""},
		{ID: "drop-baddate", Title: "Bad Date", PrimaryType: "Album", FirstReleaseDate: "not-a-date"},
		{ID: "drop-type", Title: "Live Set", PrimaryType: "Live", FirstReleaseDate: recentDate(1)},
	}
	server := serveGroups(t, groups, nil)

	client := newClient(t, server.URL,
		musicbrainz.WithTypeFilters([]string{"album", "ep"}, []string{"live"}))
	releases, err := client.FetchRecentReleases(context.Background(), "abc-123", 40)
	if err != nil {
		t.Fatalf("FetchRecentReleases: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("expected 2 releases, got %d: %v", len(releases), releases)
	}
	if releases[0].GroupID != "keep-full" || releases[1].GroupID != "keep-month" {
		t.Fatalf("unexpected releases: %v", releases)
	}
	wantMonth := time.Date(time.Now().UTC().Year(), time.Now().UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	if !releases[1].Date.Equal(wantMonth) {
		t.Fatalf("month precision promoted to %v, want %v", releases[1].Date, wantMonth)
	}
}

func TestFetchDenyListBeatsAllowList(t *testing.T) {
	groups := []fakeGroup{
		{ID: "rg-1", Title: "Both Lists", PrimaryType: "Album", FirstReleaseDate: recentDate(1)},
	}
	server := serveGroups(t, groups, nil)

	client := newClient(t, server.URL,
		musicbrainz.WithTypeFilters([]string{"album"}, []string{"Album"}))
	releases, err := client.FetchRecentReleases(context.Background(), "abc-123", 30)
	if err != nil {
		t.Fatalf("FetchRecentReleases: %v", err)
	}
	if len(releases) != 0 {
		t.Fatalf("deny list should win, got %v", releases)
	}
}

func TestFetchDiscardsPartialsOnFailure(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)
		if n > 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		groups := make([]fakeGroup, 0, 2)
		for i := 0; i < 2; i++ {
			groups = append(groups, fakeGroup{
				ID:               fmt.Sprintf("rg-%d", i),
				Title:            "Early Page",
				PrimaryType:      "Album",
				FirstReleaseDate: recentDate(1),
			})
		}
		payload := map[string]any{
			"release-groups":      groups,
			"release-group-count": 10,
		}
		json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL, musicbrainz.WithPageSize(2))
	releases, err := client.FetchRecentReleases(context.Background(), "abc-123", 30)
	if err == nil {
		t.Fatal("expected error from failing second page")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if releases != nil {
		t.Fatalf("partial results must be discarded, got %v", releases)
	}
}

func TestFetchMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not json")
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	_, err := client.FetchRecentReleases(context.Background(), "abc-123", 30)
	if !errors.Is(err, services.ErrMalformed) {
		t.Fatalf("expected malformed error, got %v", err)
	}
}

func TestFetchRejectsBadArguments(t *testing.T) {
	client := newClient(t, "http://localhost:1")
	if _, err := client.FetchRecentReleases(context.Background(), "  ", 30); err == nil {
		t.Fatal("expected error for empty mbid")
	}
	if _, err := client.FetchRecentReleases(context.Background(), "abc-123", 0); err == nil {
		t.Fatal("expected error for zero window")
	}
}
