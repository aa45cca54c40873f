package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"medialink/internal/logging"
	"medialink/internal/notifications"
	"medialink/internal/runlock"
	"medialink/internal/staging"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete staging files whose library links were removed",
		Long: "List staging files with a hard link count of one (no library link remains) and,\n" +
			"after confirmation, delete them along with any parent directory left empty.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			lock, err := runlock.Acquire(cfg.LockFile())
			if err != nil {
				return err
			}
			defer lock.Release()

			runCtx := runContext(cmd, "cleanup")
			opts := []staging.ReconcilerOption{
				staging.WithSkipDirs(cfg.Library.MoviesDir, cfg.Library.TVDir),
			}
			if store := ctx.openIndex(runCtx, logger); store != nil {
				defer store.Close()
				opts = append(opts, staging.WithForgetter(store))
			}
			reconciler := staging.NewReconciler(cfg.Paths.StagingDir, cfg.Library.VideoExtensions, logger, opts...)

			orphans, err := reconciler.FindOrphans(runCtx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(orphans) == 0 {
				fmt.Fprintf(out, "No orphaned files found under %s\n", reconciler.Root())
				return nil
			}
			printOrphans(out, orphans)
			if dryRun {
				fmt.Fprintln(out, "Dry run: nothing deleted")
				return nil
			}

			confirm, err := newConfirmer(cmd.InOrStdin(), out, assumeYes)
			if err != nil {
				return err
			}
			result := reconciler.Clean(runCtx, orphans, confirm)
			if result.Cancelled {
				fmt.Fprintln(out, "Cleanup cancelled")
				return nil
			}
			printCleanupResult(out, result, len(orphans))

			notifier := notifications.NewService(cfg)
			if err := notifier.NotifyCleanupCompleted(runCtx, len(result.Removed), len(result.Errors), result.Freed); err != nil {
				logger.Debug("cleanup notification failed", logging.Error(err))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Delete without asking for confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List orphaned files without deleting anything")
	return cmd
}

func printOrphans(out io.Writer, orphans []staging.Orphan) {
	var total int64
	rows := make([][]string, 0, len(orphans))
	for _, orphan := range orphans {
		total += orphan.Size
		rows = append(rows, []string{orphan.Path, humanize.Bytes(uint64(orphan.Size))})
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		title:   fmt.Sprintf("%d orphaned file(s), %s", len(orphans), humanize.Bytes(uint64(total))),
		headers: []string{"Path", "Size"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignRight},
	}))
}

func printCleanupResult(out io.Writer, result staging.CleanupResult, total int) {
	fmt.Fprintf(out, "Deleted %d/%d files, freed %s\n", len(result.Removed), total, humanize.Bytes(uint64(result.Freed)))
	if len(result.Relinked) > 0 {
		fmt.Fprintf(out, "Kept %d file(s) that were relinked during the prompt\n", len(result.Relinked))
	}
	if len(result.Errors) == 0 {
		return
	}
	rows := make([][]string, 0, len(result.Errors))
	for _, cleanupErr := range result.Errors {
		rows = append(rows, []string{cleanupErr.Path, cleanupErr.Error.Error()})
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		title:   fmt.Sprintf("%d error(s)", len(result.Errors)),
		headers: []string{"Path", "Error"},
		rows:    rows,
	}))
}
