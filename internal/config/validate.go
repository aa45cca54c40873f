package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateJellyfin(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.MoviesDir == "" {
		return errors.New("library.movies_dir must be set")
	}
	if c.Library.TVDir == "" {
		return errors.New("library.tv_dir must be set")
	}
	if filepath.Clean(c.Library.MoviesDir) == filepath.Clean(c.Library.TVDir) {
		return errors.New("library.movies_dir and library.tv_dir must be different directories")
	}
	for _, root := range []string{c.Library.MoviesDir, c.Library.TVDir} {
		if filepath.Clean(root) == filepath.Clean(c.Paths.StagingDir) {
			return fmt.Errorf("library root %s must not be the staging directory", root)
		}
	}
	if len(c.Library.VideoExtensions) == 0 {
		return errors.New("library.video_extensions must include at least one extension")
	}
	for _, ext := range c.Library.VideoExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("library.video_extensions: invalid extension %q", ext)
		}
	}
	return nil
}

func (c *Config) validateJellyfin() error {
	if !c.Jellyfin.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Jellyfin.URL) == "" {
		return errors.New("jellyfin.url must be set when jellyfin.enabled is true")
	}
	if c.Jellyfin.Refresh && strings.TrimSpace(c.Jellyfin.APIKey) == "" {
		return errors.New("jellyfin.api_key must be set when jellyfin.refresh is true (or set JELLYFIN_API_KEY)")
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	return ensurePositiveMap(map[string]int{
		"jellyfin.timeout_seconds":      c.Jellyfin.TimeoutSeconds,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
		"logging.max_size_mb":           c.Logging.MaxSizeMB,
	})
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
