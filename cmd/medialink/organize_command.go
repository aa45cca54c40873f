package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"medialink/internal/config"
	"medialink/internal/logging"
	"medialink/internal/notifications"
	"medialink/internal/organizer"
	"medialink/internal/runlock"
	"medialink/internal/services"
	"medialink/internal/services/jellyfin"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "organize [path]",
		Short: "Hard-link staging files into the library",
		Long: "Organize every recognized video under the staging directory, or only under path\n" +
			"when given. Per-file failures are reported but do not change the exit status.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, ctx, args)
		},
	}
}

func runOrganize(cmd *cobra.Command, ctx *commandContext, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	root := cfg.Paths.StagingDir
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		root, err = config.ExpandPath(strings.TrimSpace(args[0]))
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
	}

	lock, err := runlock.Acquire(cfg.LockFile())
	if err != nil {
		return err
	}
	defer lock.Release()

	runCtx := runContext(cmd, "organize")
	notifier := notifications.NewService(cfg)
	if len(args) == 1 {
		logging.WithContext(runCtx, logger).Info("Invoked for path", logging.String("path", root))
	}

	deps := []organizer.Option{}
	if store := ctx.openIndex(runCtx, logger); store != nil {
		defer store.Close()
		deps = append(deps, organizer.WithRecorder(store))
	}

	org := organizer.New(organizer.Options{
		StagingRoot: cfg.Paths.StagingDir,
		MoviesRoot:  cfg.Library.MoviesDir,
		TVRoot:      cfg.Library.TVDir,
		Extensions:  cfg.Library.VideoExtensions,
		MinorWords:  cfg.Library.MinorWords,
	}, logger, deps...)

	summary, err := org.Organize(runCtx, root)
	if err != nil {
		if notifyErr := notifier.NotifyError(runCtx, err, "organize"); notifyErr != nil {
			logger.Debug("error notification failed", logging.Error(notifyErr))
		}
		return err
	}

	printOrganizeSummary(cmd.OutOrStdout(), summary)

	if client := jellyfin.NewConfiguredService(cfg); client != nil {
		jellyfin.AfterOrganize(runCtx, client, client.RefreshEnabled(), logger)
	}

	if err := notifier.NotifyOrganizeCompleted(runCtx, summary.Root, summary.Succeeded, summary.Total, summary.Duration); err != nil {
		logging.WarnWithContext(logging.WithContext(runCtx, logger), "organize notification failed", "notify_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no push notification for this run"),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
		)
	}
	if summary.Interrupted {
		return runCtx.Err()
	}
	return nil
}

func printOrganizeSummary(out io.Writer, summary organizer.Summary) {
	fmt.Fprintf(out, "Successfully organized %d/%d files\n", summary.Succeeded, summary.Total)
	failures := summary.Failures()
	if len(failures) == 0 {
		return
	}
	rows := make([][]string, 0, len(failures))
	for _, failure := range failures {
		rows = append(rows, []string{
			filepath.Base(failure.Source),
			failure.Destination,
			services.FailureReason(failure.Err),
		})
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		title:   fmt.Sprintf("%d failed", len(failures)),
		headers: []string{"Source", "Destination", "Reason"},
		rows:    rows,
	}))
}
