package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"encore/internal/config"
	"encore/internal/logging"
	"encore/internal/services"
)

const defaultNtfyServer = "https://ntfy.sh"

// ReleaseMessage carries everything needed to announce one release.
type ReleaseMessage struct {
	Artist string
	Title  string
	Type   string
	Date   string
}

// Body renders the notification text: "{date}: {artist} - {title} ({type})",
// with the type suffix omitted when the release carries none.
func (m ReleaseMessage) Body() string {
	body := fmt.Sprintf("%s: %s - %s", m.Date, m.Artist, m.Title)
	if m.Type != "" {
		body += fmt.Sprintf(" (%s)", m.Type)
	}
	return body
}

// Notifier delivers release announcements.
type Notifier interface {
	SendRelease(ctx context.Context, msg ReleaseMessage) error
	TestNotification(ctx context.Context) error
}

// NtfyNotifier publishes to an ntfy topic. With no topic configured every
// send is a silent no-op so runs work without push notifications.
type NtfyNotifier struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewNtfy builds a notifier from configuration. The topic may be a bare
// topic name (published to ntfy.sh) or a full server URL.
func NewNtfy(cfg *config.Config, logger *slog.Logger) *NtfyNotifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := time.Duration(cfg.Ntfy.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	endpoint := ""
	if topic := cfg.Ntfy.Topic; topic != "" {
		if strings.Contains(topic, "://") {
			endpoint = topic
		} else {
			endpoint = defaultNtfyServer + "/" + topic
		}
	}

	return &NtfyNotifier{
		endpoint:   endpoint,
		token:      cfg.Ntfy.Token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger(logger, "notifications"),
	}
}

// Enabled reports whether a topic is configured.
func (n *NtfyNotifier) Enabled() bool {
	return n.endpoint != ""
}

// SendRelease announces one release on the configured topic.
func (n *NtfyNotifier) SendRelease(ctx context.Context, msg ReleaseMessage) error {
	return n.publish(ctx, msg.Body(), "New release", "loudspeaker", "default")
}

// TestNotification sends a throwaway message so operators can verify the
// topic and token without waiting for a real release.
func (n *NtfyNotifier) TestNotification(ctx context.Context) error {
	body := fmt.Sprintf("encore test notification (%s)", time.Now().Format(time.RFC3339))
	return n.publish(ctx, body, "encore", "wave", "low")
}

func (n *NtfyNotifier) publish(ctx context.Context, body, title, tags, priority string) error {
	if !n.Enabled() {
		n.logger.Debug("ntfy topic not configured, skipping notification")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(body))
	if err != nil {
		return services.Wrap(services.ErrNotification, "notifications", "publish", "build request", err)
	}
	req.Header.Set("Title", title)
	req.Header.Set("Tags", tags)
	req.Header.Set("Priority", priority)
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrNotification, "notifications", "publish", "execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return services.Wrap(services.ErrNotification, "notifications", "publish",
			fmt.Sprintf("ntfy returned %d", resp.StatusCode), nil)
	}
	return nil
}
