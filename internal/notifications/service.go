package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"medialink/internal/config"
)

const userAgent = "medialink/0.1.0"

// Service defines the run notifications sent by the CLI.
type Service interface {
	NotifyOrganizeCompleted(ctx context.Context, root string, succeeded, total int, duration time.Duration) error
	NotifyCleanupCompleted(ctx context.Context, removed, failed int, freedBytes int64) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		organize: cfg.Notifications.Organize,
		cleanup:  cfg.Notifications.Cleanup,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	organize bool
	cleanup  bool
}

func (n *ntfyService) NotifyOrganizeCompleted(ctx context.Context, root string, succeeded, total int, duration time.Duration) error {
	if !n.organize || total == 0 {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	data := payload{
		title:   "medialink - Library Updated",
		message: fmt.Sprintf("Organized %d/%d files from %s in %s", succeeded, total, strings.TrimSpace(root), duration),
		tags:    []string{"medialink", "organize", "completed"},
	}
	if failed := total - succeeded; failed > 0 {
		data.title = "medialink - Library Updated (with errors)"
		data.message = fmt.Sprintf("%s\n%d files failed, see the log for details", data.message, failed)
		data.priority = "high"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCleanupCompleted(ctx context.Context, removed, failed int, freedBytes int64) error {
	if !n.cleanup || (removed == 0 && failed == 0) {
		return nil
	}
	if freedBytes < 0 {
		freedBytes = 0
	}
	data := payload{
		title:   "medialink - Staging Cleaned",
		message: fmt.Sprintf("Deleted %d orphaned files, freed %s", removed, humanize.Bytes(uint64(freedBytes))),
		tags:    []string{"medialink", "cleanup", "completed"},
	}
	if failed > 0 {
		data.message = fmt.Sprintf("%s\n%d deletions failed", data.message, failed)
		data.priority = "high"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" during ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	return n.send(ctx, payload{
		title:    "medialink - Error",
		message:  builder.String(),
		tags:     []string{"medialink", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "medialink - Test",
		message:  "Notification system test",
		tags:     []string{"medialink", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyOrganizeCompleted(context.Context, string, int, int, time.Duration) error {
	return nil
}
func (noopService) NotifyCleanupCompleted(context.Context, int, int, int64) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error              { return nil }
func (noopService) TestNotification(context.Context) error                        { return nil }
