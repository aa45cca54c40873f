package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"medialink/internal/config"
	"medialink/internal/index"
	"medialink/internal/logging"
	"medialink/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// runContext tags ctx with a fresh run id and the stage name so every log line
// of one invocation can be correlated.
func runContext(cmd *cobra.Command, stage string) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithRunID(ctx, uuid.NewString())
	return services.WithStage(ctx, stage)
}

// openIndex opens the link index when enabled. Failures are logged and the
// run continues without it.
func (c *commandContext) openIndex(ctx context.Context, logger *slog.Logger) *index.Store {
	cfg := c.config
	if cfg == nil || !cfg.Index.Enabled || strings.TrimSpace(cfg.Index.Path) == "" {
		return nil
	}
	store, err := index.Open(cfg.Index.Path)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, logger), "link index unavailable", "index_open_failed",
			logging.String("path", cfg.Index.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "history will not include this run"),
		)
		return nil
	}
	return store
}

func (c *commandContext) requireIndex() (*index.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Index.Enabled {
		return nil, fmt.Errorf("link index is disabled (set [index] enabled = true)")
	}
	return index.Open(cfg.Index.Path)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
