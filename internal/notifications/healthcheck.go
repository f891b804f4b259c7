package notifications

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"encore/internal/config"
	"encore/internal/logging"
)

// HealthPinger reports run liveness to an external monitor. Ping failures are
// the pinger's problem: they are logged and never propagate into the run.
type HealthPinger interface {
	Start(ctx context.Context, runID string)
	Result(ctx context.Context, runID string, ok bool)
}

// HealthcheckPinger pings a healthchecks.io check URL. An empty URL disables
// pinging entirely.
type HealthcheckPinger struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHealthcheck builds a pinger from configuration.
func NewHealthcheck(cfg *config.Config, logger *slog.Logger) *HealthcheckPinger {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := time.Duration(cfg.HealthCheck.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HealthcheckPinger{
		baseURL:    cfg.HealthCheck.URL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger(logger, "healthcheck"),
	}
}

// Start signals that a run has begun.
func (p *HealthcheckPinger) Start(ctx context.Context, runID string) {
	p.ping(ctx, "/start", runID)
}

// Result signals how a run ended. Exactly one Result call is expected per
// Start; the run identifier ties the two together on the monitor side.
func (p *HealthcheckPinger) Result(ctx context.Context, runID string, ok bool) {
	suffix := ""
	if !ok {
		suffix = "/fail"
	}
	p.ping(ctx, suffix, runID)
}

func (p *HealthcheckPinger) ping(ctx context.Context, suffix, runID string) {
	if p.baseURL == "" {
		return
	}

	endpoint := p.baseURL + suffix
	if runID != "" {
		endpoint += "?" + url.Values{"rid": []string{runID}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		p.logger.Warn("health ping failed", logging.String("endpoint", suffix), logging.Error(err))
		return
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Warn("health ping failed", logging.String("endpoint", suffix), logging.Error(err))
		return
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Warn("health ping rejected",
			logging.String("endpoint", suffix),
			logging.Int("status", resp.StatusCode))
	}
}
