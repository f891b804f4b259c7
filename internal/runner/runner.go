package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"encore/internal/logging"
	"encore/internal/musicbrainz"
	"encore/internal/notifications"
	"encore/internal/roster"
	"encore/internal/services"
	"encore/internal/store"
)

// ReleaseFetcher retrieves recent releases for one artist.
type ReleaseFetcher interface {
	FetchRecentReleases(ctx context.Context, artistMBID string, windowDays int) ([]musicbrainz.Release, error)
}

// CatalogSource supplies the authoritative artist snapshot for reconciliation.
type CatalogSource interface {
	ListArtistsWithIDs(ctx context.Context) (map[string]string, error)
}

// Params collects everything a Runner needs.
type Params struct {
	Store    *store.Store
	Catalog  CatalogSource
	Fetcher  ReleaseFetcher
	Notifier notifications.Notifier
	Pinger   notifications.HealthPinger
	Logger   *slog.Logger

	LockPath   string
	CheckLimit int
	WindowDays int
}

// Options controls a single run.
type Options struct {
	// Artist restricts the run to one already-tracked artist and skips
	// reconciliation. Matched case-insensitively against the roster.
	Artist string
}

// Runner drives one discovery run: reconcile the roster, check due artists
// against MusicBrainz, persist discoveries, then dispatch notifications.
type Runner struct {
	store      *store.Store
	catalog    CatalogSource
	fetcher    ReleaseFetcher
	notifier   notifications.Notifier
	pinger     notifications.HealthPinger
	logger     *slog.Logger
	lockPath   string
	checkLimit int
	windowDays int
}

// New validates the wiring and returns a Runner.
func New(params Params) (*Runner, error) {
	if params.Store == nil {
		return nil, errors.New("runner requires a store")
	}
	if params.Catalog == nil {
		return nil, errors.New("runner requires a catalog source")
	}
	if params.Fetcher == nil {
		return nil, errors.New("runner requires a release fetcher")
	}
	if params.Notifier == nil {
		return nil, errors.New("runner requires a notifier")
	}
	if params.Pinger == nil {
		return nil, errors.New("runner requires a health pinger")
	}
	if params.LockPath == "" {
		return nil, errors.New("runner requires a lock path")
	}
	if params.CheckLimit <= 0 {
		return nil, fmt.Errorf("check limit must be positive, got %d", params.CheckLimit)
	}
	if params.WindowDays <= 0 {
		return nil, fmt.Errorf("window days must be positive, got %d", params.WindowDays)
	}

	return &Runner{
		store:      params.Store,
		catalog:    params.Catalog,
		fetcher:    params.Fetcher,
		notifier:   params.Notifier,
		pinger:     params.Pinger,
		logger:     logging.NewComponentLogger(params.Logger, "runner"),
		lockPath:   params.LockPath,
		checkLimit: params.CheckLimit,
		windowDays: params.WindowDays,
	}, nil
}

// Run performs one discovery run. Per-artist fetch failures and per-release
// send failures are logged and skipped; the run still completes and returns
// nil. Only errors that make the run impossible (held lock, unreadable
// catalog, failed reconciliation) are returned.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	lock := flock.New(r.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrSetup, "runner", "lock", "acquire run lock", err)
	}
	if !locked {
		return services.Wrap(services.ErrSetup, "runner", "lock", "another run is in progress", nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	runID := uuid.NewString()
	log := r.logger.With(logging.String(logging.FieldRunID, runID))
	log.Info("run started")

	r.pinger.Start(ctx, runID)
	completed := false
	defer func() {
		r.pinger.Result(ctx, runID, completed)
	}()

	due, err := r.selectArtists(ctx, log, opts)
	if err != nil {
		return err
	}

	discovered := r.checkArtists(ctx, log, due)
	sent, err := r.dispatch(ctx, log)
	if err != nil {
		return err
	}

	if stats, err := r.store.Stats(ctx); err != nil {
		log.Warn("stats unavailable", logging.Error(err))
	} else {
		log.Info("run finished",
			logging.Int("checked", len(due)),
			logging.Int("discovered", discovered),
			logging.Int("notified", sent),
			logging.Int("artists", stats.Artists),
			logging.Int("releases", stats.Releases),
			logging.Int("pending", stats.Unnotified))
	}

	completed = true
	return nil
}

// selectArtists reconciles the roster and picks the artists to check. In
// single-artist mode reconciliation is skipped and the artist must already be
// tracked.
func (r *Runner) selectArtists(ctx context.Context, log *slog.Logger, opts Options) ([]*store.Artist, error) {
	if opts.Artist != "" {
		artist, err := r.store.GetArtistByName(ctx, opts.Artist)
		if err != nil {
			return nil, services.Wrap(services.ErrSetup, "runner", "select", "look up artist", err)
		}
		if artist == nil {
			return nil, services.Wrap(services.ErrSetup, "runner", "select",
				fmt.Sprintf("artist %q is not tracked", opts.Artist), nil)
		}
		return []*store.Artist{artist}, nil
	}

	snapshot, err := r.catalog.ListArtistsWithIDs(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrReconcile, "runner", "reconcile", "read catalog", err)
	}
	changed, err := roster.Reconcile(ctx, snapshot, r.store)
	if err != nil {
		return nil, services.Wrap(services.ErrReconcile, "runner", "reconcile", "apply snapshot", err)
	}
	log.Info("roster reconciled",
		logging.Int("catalog_artists", len(snapshot)),
		logging.Int("changed", changed))

	due, err := r.store.SelectArtistsDue(ctx, r.checkLimit)
	if err != nil {
		return nil, services.Wrap(services.ErrSetup, "runner", "select", "select due artists", err)
	}
	return due, nil
}

// checkArtists fetches releases for each artist and persists discoveries.
// Every attempted artist is marked checked, success or failure, so a
// persistently failing artist cannot pin the due queue.
func (r *Runner) checkArtists(ctx context.Context, log *slog.Logger, due []*store.Artist) int {
	discovered := 0
	for _, artist := range due {
		if ctx.Err() != nil {
			log.Warn("run interrupted", logging.Error(ctx.Err()))
			return discovered
		}
		alog := log.With(logging.String(logging.FieldArtist, artist.Name))

		if artist.MBID == "" {
			alog.Info("no identifier yet, skipping fetch")
			r.markChecked(ctx, alog, artist.ID)
			continue
		}

		releases, err := r.fetcher.FetchRecentReleases(ctx, artist.MBID, r.windowDays)
		if err != nil {
			alog.Warn("fetch failed", logging.Error(err))
			r.markChecked(ctx, alog, artist.ID)
			continue
		}

		for _, release := range releases {
			created, err := r.store.RecordRelease(ctx, artist.ID, store.ReleaseInput{
				GroupID: release.GroupID,
				Title:   release.Title,
				Type:    release.Type,
				Date:    release.Date,
			})
			if err != nil {
				alog.Error("record release failed",
					logging.String(logging.FieldRelease, release.Title),
					logging.Error(err))
				continue
			}
			if created {
				discovered++
				alog.Info("release discovered",
					logging.String(logging.FieldRelease, release.Title),
					logging.String("date", release.Date.Format("2006-01-02")))
			}
		}
		r.markChecked(ctx, alog, artist.ID)
	}
	return discovered
}

// dispatch sends pending notifications oldest first. Each release is marked
// notified immediately after its send succeeds so a crash between sends never
// re-notifies the ones already delivered. A failed send leaves the release
// pending for the next run.
func (r *Runner) dispatch(ctx context.Context, log *slog.Logger) (int, error) {
	pending, err := r.store.SelectUnnotified(ctx)
	if err != nil {
		return 0, services.Wrap(services.ErrSetup, "runner", "dispatch", "select pending releases", err)
	}

	sent := 0
	for _, release := range pending {
		msg := notifications.ReleaseMessage{
			Artist: release.ArtistName,
			Title:  release.Title,
			Type:   release.Type,
			Date:   release.ReleaseDate,
		}
		if err := r.notifier.SendRelease(ctx, msg); err != nil {
			log.Warn("notification failed",
				logging.String(logging.FieldArtist, release.ArtistName),
				logging.String(logging.FieldRelease, release.Title),
				logging.Error(err))
			continue
		}
		if err := r.store.MarkNotified(ctx, release.ID); err != nil {
			log.Error("mark notified failed",
				logging.String(logging.FieldRelease, release.Title),
				logging.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func (r *Runner) markChecked(ctx context.Context, log *slog.Logger, artistID int64) {
	if err := r.store.MarkChecked(ctx, artistID); err != nil {
		log.Error("mark checked failed", logging.Error(err))
	}
}
