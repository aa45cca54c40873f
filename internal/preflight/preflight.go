package preflight

import (
	"context"

	"medialink/internal/config"
	"medialink/internal/services/jellyfin"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
		CheckDirectoryAccess("Movies directory", cfg.Library.MoviesDir),
		CheckDirectoryAccess("TV directory", cfg.Library.TVDir),
	}

	if staging := results[0]; staging.Passed {
		results = append(results,
			CheckSameFilesystem("Movies hard links", cfg.Paths.StagingDir, cfg.Library.MoviesDir),
			CheckSameFilesystem("TV hard links", cfg.Paths.StagingDir, cfg.Library.TVDir),
		)
	}

	if client := jellyfin.NewConfiguredService(cfg); client != nil {
		results = append(results, CheckJellyfin(ctx, client))
	}

	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
