package jellyfin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"medialink/internal/config"
	"medialink/internal/logging"
	"medialink/internal/services"
)

// HTTPDoer describes the HTTP client used by the Jellyfin client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Service is the media-server surface the CLI talks to after an organize run.
type Service interface {
	Health(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// Client talks to a Jellyfin server over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	refresh bool
	timeout time.Duration
	client  HTTPDoer
}

// NewClient constructs a client. A zero timeout defaults to five seconds.
func NewClient(baseURL, apiKey string, refresh bool, timeout time.Duration, client HTTPDoer) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		refresh: refresh,
		timeout: timeout,
		client:  client,
	}
}

// NewConfiguredService returns a Jellyfin client, or nil when the integration
// is disabled or no URL is set.
func NewConfiguredService(cfg *config.Config) *Client {
	if cfg == nil || !cfg.Jellyfin.Enabled || strings.TrimSpace(cfg.Jellyfin.URL) == "" {
		return nil
	}
	return NewClient(
		cfg.Jellyfin.URL,
		cfg.Jellyfin.APIKey,
		cfg.Jellyfin.Refresh,
		time.Duration(cfg.Jellyfin.TimeoutSeconds)*time.Second,
		http.DefaultClient,
	)
}

// Health performs GET /health.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return services.Wrap(services.ErrValidation, "jellyfin", "health", "build request", err)
	}
	return c.do(req, "health")
}

// Refresh triggers a library scan with POST /Library/Refresh. It is a no-op
// unless refresh is enabled and an API key is set.
func (c *Client) Refresh(ctx context.Context) error {
	if !c.RefreshEnabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Library/Refresh", nil)
	if err != nil {
		return services.Wrap(services.ErrValidation, "jellyfin", "refresh", "build request", err)
	}
	req.Header.Set("X-Emby-Token", c.apiKey)
	return c.do(req, "refresh")
}

// RefreshEnabled reports whether Refresh will contact the server.
func (c *Client) RefreshEnabled() bool {
	return c != nil && c.refresh && c.apiKey != ""
}

// URL returns the normalized server URL.
func (c *Client) URL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

func (c *Client) do(req *http.Request, operation string) error {
	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "jellyfin", operation, fmt.Sprintf("no answer within %s", c.timeout), err)
		}
		return services.Wrap(services.ErrTransient, "jellyfin", operation, "request failed", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return services.Wrap(services.ErrNotFound, "jellyfin", operation, "endpoint not found (is jellyfin.url the server root?)", nil)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return services.Wrap(services.ErrExternalTool, "jellyfin", operation,
			fmt.Sprintf("server returned %d", resp.StatusCode), nil)
	}
	return nil
}

// AfterOrganize checks server health and, when configured, triggers a library
// refresh. Outcomes are only logged.
func AfterOrganize(ctx context.Context, svc Service, refreshEnabled bool, logger *slog.Logger) {
	if svc == nil {
		return
	}
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "jellyfin"))
	if err := svc.Health(ctx); err != nil {
		logging.WarnWithContext(logger, "Jellyfin health check failed", "jellyfin_health",
			logging.Error(err),
			logging.String(logging.FieldImpact, "new media will appear after the next scheduled scan"),
			logging.String(logging.FieldErrorHint, "check jellyfin.url and that the server is running"),
		)
		return
	}
	logger.Info("Jellyfin is reachable")
	if !refreshEnabled {
		return
	}
	if err := svc.Refresh(ctx); err != nil {
		logging.WarnWithContext(logger, "Jellyfin library refresh failed", "jellyfin_refresh",
			logging.Error(err),
			logging.String(logging.FieldImpact, "new media will appear after the next scheduled scan"),
			logging.String(logging.FieldErrorHint, "check jellyfin.api_key"),
		)
		return
	}
	logger.Info("Jellyfin library refresh requested")
}
