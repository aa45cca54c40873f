package config

import "medialink/internal/mediainfo"

const (
	defaultStagingDir           = "~/downloads/complete"
	defaultLogDir               = "~/.local/share/medialink/logs"
	defaultMoviesDir            = "~/media/movies"
	defaultTVDir                = "~/media/tv"
	defaultIndexPath            = "~/.local/share/medialink/index.db"
	defaultJellyfinURL          = "http://localhost:8096"
	defaultJellyfinTimeout      = 5
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogMaxSizeMB         = 100
	defaultLogMaxBackups        = 5
)

// DefaultVideoExtensions lists the recognized video extensions. The organizer
// and the orphan reconciler share this set.
func DefaultVideoExtensions() []string {
	return []string{".mkv", ".mp4", ".avi", ".mov", ".m4v", ".wmv", ".flv", ".webm", ".ts", ".m2ts"}
}

// DefaultMinorWords lists the words kept lowercase inside a title.
func DefaultMinorWords() []string {
	return mediainfo.DefaultMinorWords()
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Library: Library{
			MoviesDir:       defaultMoviesDir,
			TVDir:           defaultTVDir,
			VideoExtensions: DefaultVideoExtensions(),
			MinorWords:      DefaultMinorWords(),
		},
		Index: Index{
			Enabled: true,
			Path:    defaultIndexPath,
		},
		Jellyfin: Jellyfin{
			Enabled:        true,
			URL:            defaultJellyfinURL,
			TimeoutSeconds: defaultJellyfinTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Organize:       true,
			Cleanup:        true,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}
