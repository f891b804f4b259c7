package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"encore/internal/config"
	"encore/internal/services"
)

// Client browses release groups per artist from the MusicBrainz web service.
// A single Client carries one shared rate limiter; every request waits on it
// regardless of which artist is being fetched.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	pageSize   int
	maxPages   int
	included   map[string]struct{}
	excluded   map[string]struct{}
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit sets the minimum delay between consecutive requests.
func WithRateLimit(delay time.Duration) Option {
	return func(c *Client) {
		if delay > 0 {
			c.limiter = rate.NewLimiter(rate.Every(delay), 1)
		}
	}
}

// WithPageSize sets the browse page size.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithMaxPages bounds how many pages a single fetch will walk.
func WithMaxPages(pages int) Option {
	return func(c *Client) {
		if pages > 0 {
			c.maxPages = pages
		}
	}
}

// WithTypeFilters sets the release-type allow and deny lists. Matching is
// case-insensitive; the deny list wins when a type appears on both.
func WithTypeFilters(included, excluded []string) Option {
	return func(c *Client) {
		c.included = foldTypeSet(included)
		c.excluded = foldTypeSet(excluded)
	}
}

// New creates a MusicBrainz client.
func New(baseURL, userAgent string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("musicbrainz base url required")
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("musicbrainz user agent required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		pageSize:   25,
		maxPages:   40,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewFromConfig creates a client from application configuration.
func NewFromConfig(cfg *config.Config) (*Client, error) {
	return New(
		cfg.MusicBrainz.BaseURL,
		cfg.MusicBrainz.UserAgent,
		WithRateLimit(time.Duration(cfg.MusicBrainz.RateLimitMillis)*time.Millisecond),
		WithPageSize(cfg.MusicBrainz.PageSize),
		WithMaxPages(cfg.MusicBrainz.MaxPages),
		WithTypeFilters(cfg.MusicBrainz.IncludedReleaseTypes, cfg.MusicBrainz.ExcludedReleaseTypes),
	)
}

// FetchRecentReleases walks the artist's release groups and returns those
// dated within the trailing window, normalized and filtered. On a request
// failure the whole call fails; pages already collected are discarded so the
// caller never sees a half-applied window.
func (c *Client) FetchRecentReleases(ctx context.Context, artistMBID string, windowDays int) ([]Release, error) {
	artistMBID = strings.TrimSpace(artistMBID)
	if artistMBID == "" {
		return nil, errors.New("artist mbid must not be empty")
	}
	if windowDays <= 0 {
		return nil, fmt.Errorf("window days must be positive, got %d", windowDays)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays)

	var releases []Release
	offset := 0
	for page := 0; page < c.maxPages; page++ {
		records, err := c.browsePage(ctx, artistMBID, offset)
		if err != nil {
			return nil, err
		}

		for _, record := range records {
			release, ok := c.normalize(record, cutoff)
			if !ok {
				continue
			}
			releases = append(releases, release)
		}

		// A short page signals end of results.
		if len(records) < c.pageSize {
			break
		}
		offset += c.pageSize
	}
	return releases, nil
}

func (c *Client) browsePage(ctx context.Context, artistMBID string, offset int) ([]releaseGroup, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, services.Wrap(services.ErrTransient, "musicbrainz", "throttle", "", err)
	}

	endpoint, err := url.Parse(c.baseURL + "/release-group")
	if err != nil {
		return nil, fmt.Errorf("parse musicbrainz url: %w", err)
	}
	params := url.Values{}
	params.Set("artist", artistMBID)
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(c.pageSize))
	params.Set("fmt", "json")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "musicbrainz", "browse", "execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrTransient, "musicbrainz", "browse",
			fmt.Sprintf("service returned %d", resp.StatusCode), nil)
	}

	var payload browseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "musicbrainz", "browse", "decode response", err)
	}
	return payload.ReleaseGroups, nil
}

// normalize maps one raw record to a Release, reporting false when the record
// is filtered out: no date, unparseable date, type excluded, or outside the
// window. A bad record never fails the page.
func (c *Client) normalize(record releaseGroup, cutoff time.Time) (Release, bool) {
	if record.FirstReleaseDate == "" {
		return Release{}, false
	}
	date, err := ParseReleaseDate(record.FirstReleaseDate)
	if err != nil {
		return Release{}, false
	}

	releaseType := strings.ToLower(strings.TrimSpace(record.PrimaryType))
	if len(c.excluded) > 0 {
		if _, denied := c.excluded[releaseType]; denied {
			return Release{}, false
		}
	}
	if len(c.included) > 0 {
		if _, allowed := c.included[releaseType]; !allowed {
			return Release{}, false
		}
	}

	if date.Before(cutoff) {
		return Release{}, false
	}

	return Release{
		GroupID: record.ID,
		Title:   record.Title,
		Type:    record.PrimaryType,
		Date:    date,
		RawDate: record.FirstReleaseDate,
	}, true
}

func foldTypeSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		set[value] = struct{}{}
	}
	return set
}
