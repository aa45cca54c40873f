package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"medialink/internal/library"
	"medialink/internal/mediainfo"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <name>...",
		Short: "Show how filenames would be classified and where they would be linked",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			classifier := mediainfo.NewClassifier(mediainfo.NewTitleCaser(cfg.Library.MinorWords))
			resolver := library.NewResolver(cfg.Library.MoviesDir, cfg.Library.TVDir)

			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				meta := classifier.ClassifyPath(arg)
				dest := resolver.Resolve(meta, filepath.Base(arg))
				rows = append(rows, []string{
					filepath.Base(arg),
					string(meta.Kind),
					meta.Title,
					formatYear(meta.Year),
					meta.EpisodeCode(),
					meta.Resolution,
					string(meta.Match),
					dest.Path(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableSpec{
				headers: []string{"Name", "Kind", "Title", "Year", "Episode", "Resolution", "Match", "Destination"},
				rows:    rows,
			}))
			return nil
		},
	}
}

func formatYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
