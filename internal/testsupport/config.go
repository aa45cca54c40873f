package testsupport

import (
	"path/filepath"
	"testing"

	"medialink/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose staging, library, log, and index paths all
// live under a per-test temp directory on one filesystem. Jellyfin is
// disabled so tests never reach the network.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Library.MoviesDir = filepath.Join(base, "library", "movies")
	cfgVal.Library.TVDir = filepath.Join(base, "library", "tv")
	cfgVal.Index.Path = filepath.Join(base, "index", "index.db")
	cfgVal.Jellyfin.Enabled = false
	cfgVal.Jellyfin.APIKey = ""
	cfgVal.Notifications.NtfyTopic = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithJellyfin enables the Jellyfin client against url.
func WithJellyfin(url, apiKey string, refresh bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Jellyfin.Enabled = true
		b.cfg.Jellyfin.URL = url
		b.cfg.Jellyfin.APIKey = apiKey
		b.cfg.Jellyfin.Refresh = refresh
	}
}

// WithNtfyTopic routes notifications to topic.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// WithoutIndex disables the link index.
func WithoutIndex() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Index.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
