package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"medialink/internal/index"
	"medialink/internal/preflight"
	"medialink/internal/runlock"
	"medialink/internal/services/jellyfin"
	"medialink/internal/textutil"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, directory health, and lock state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			configNote := ctx.configPath + textutil.Ternary(ctx.configSeen, "", " (not found, using defaults)")
			lines = append(lines,
				renderStatusLine("Config", statusInfo, configNote, colorize),
				renderStatusLine("Extensions", statusInfo, strings.Join(cfg.Library.VideoExtensions, " "), colorize),
				renderStatusLine("Log file", statusInfo, cfg.LogFile(), colorize),
			)
			if client := jellyfin.NewConfiguredService(cfg); client != nil {
				lines = append(lines, renderStatusLine("Jellyfin", statusInfo,
					client.URL()+textutil.Ternary(client.RefreshEnabled(), " (refresh after organize)", ""), colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Checks", colorize)...)
			results := preflight.RunAll(cmd.Context(), cfg)
			lines = append(lines, checkLines(results, colorize)...)

			held, err := runlock.Held(cfg.LockFile())
			switch {
			case err != nil:
				lines = append(lines, renderStatusLine("Run lock", statusWarn, err.Error(), colorize))
			case held:
				lines = append(lines, renderStatusLine("Run lock", statusWarn, "held by a running invocation", colorize))
			default:
				lines = append(lines, renderStatusLine("Run lock", statusOK, "free", colorize))
			}

			lines = append(lines, indexStatusLine(cmd, cfg.Index.Enabled, cfg.Index.Path, colorize))

			if failed := preflight.Failed(results); len(failed) > 0 {
				lines = append(lines, "", fmt.Sprintf("%d check(s) failed; organize may not be able to link files", len(failed)))
			}
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

func indexStatusLine(cmd *cobra.Command, enabled bool, path string, colorize bool) string {
	if !enabled {
		return renderStatusLine("Link index", statusInfo, "disabled", colorize)
	}
	store, err := index.Open(path)
	if err != nil {
		return renderStatusLine("Link index", statusWarn, err.Error(), colorize)
	}
	defer store.Close()
	count, err := store.Count(cmd.Context())
	if err != nil {
		return renderStatusLine("Link index", statusWarn, err.Error(), colorize)
	}
	return renderStatusLine("Link index", statusOK, strconv.Itoa(count)+" links recorded", colorize)
}
