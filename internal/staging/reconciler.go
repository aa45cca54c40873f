package staging

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"medialink/internal/fileutil"
	"medialink/internal/index"
	"medialink/internal/logging"
	"medialink/internal/services"
)

// Orphan is a staging file with no remaining library links.
type Orphan struct {
	Path      string
	Size      int64
	LinkCount uint64
}

// Confirmer approves a deletion batch. Only (true, nil) lets the sweep proceed.
type Confirmer interface {
	Confirm(ctx context.Context, orphans []Orphan) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, orphans []Orphan) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, orphans []Orphan) (bool, error) {
	return f(ctx, orphans)
}

// CleanupResult reports the outcome of a sweep.
type CleanupResult struct {
	Removed     []string
	RemovedDirs []string
	// Relinked lists orphans that gained a link between scan and deletion
	// and were kept.
	Relinked []string
	Freed    int64
	Errors   []CleanupError
	// Cancelled is set when confirmation was declined or failed; nothing was
	// deleted in that case.
	Cancelled bool
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// LinkCounter returns the hard link count for a path.
type LinkCounter func(path string) (uint64, error)

// ReconcilerOption customizes a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithLinkCounter replaces the unix.Stat based link counter.
func WithLinkCounter(counter LinkCounter) ReconcilerOption {
	return func(r *Reconciler) {
		if counter != nil {
			r.linkCount = counter
		}
	}
}

// WithForgetter prunes index entries for deleted files.
func WithForgetter(forgetter index.Forgetter) ReconcilerOption {
	return func(r *Reconciler) {
		r.forgetter = forgetter
	}
}

// WithSkipDirs keeps the walk out of dirs, typically library roots nested
// inside the staging tree. Their files lose a link whenever the staging
// original is deleted and must never be reported as orphans.
func WithSkipDirs(dirs ...string) ReconcilerOption {
	return func(r *Reconciler) {
		r.skipDirs = append(r.skipDirs, dirs...)
	}
}

// Reconciler finds and removes staging files whose library links are gone.
type Reconciler struct {
	root       string
	extensions fileutil.ExtensionSet
	linkCount  LinkCounter
	forgetter  index.Forgetter
	skipDirs   []string
	logger     *slog.Logger
}

// NewReconciler constructs a reconciler for the staging root.
func NewReconciler(root string, extensions []string, logger *slog.Logger, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		root:       filepath.Clean(root),
		extensions: fileutil.NewExtensionSet(extensions),
		linkCount:  fileutil.LinkCount,
		logger:     logging.NewComponentLogger(logger, "staging"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the staging root.
func (r *Reconciler) Root() string {
	return r.root
}

// FindOrphans lists recognized files under the staging root whose link count
// is exactly one. Files whose link count cannot be read are skipped.
func (r *Reconciler) FindOrphans(ctx context.Context) ([]Orphan, error) {
	logger := logging.WithContext(ctx, r.logger)
	if !fileutil.IsDir(r.root) {
		return nil, services.Wrap(services.ErrConfiguration, "cleanup", "stat root",
			"Staging directory does not exist: "+r.root, nil)
	}

	logger.Info("Scanning for orphaned files", logging.String("path", r.root))
	skip := fileutil.NestedDirs(r.root, r.skipDirs...)
	for _, dir := range skip {
		logger.Debug("skipping nested library root", logging.String("path", dir))
	}
	files, err := fileutil.WalkFiles(ctx, r.root, fileutil.WalkOptions{
		Extensions: r.extensions,
		SkipDirs:   skip,
		OnError: func(path string, err error) {
			logging.WarnWithContext(logger, "skipping unreadable path", "cleanup_unreadable",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "orphans below this path were not considered"),
			)
		},
	})
	if err != nil {
		return nil, err
	}

	var orphans []Orphan
	for _, path := range files {
		count, err := r.linkCount(path)
		if err != nil {
			logging.WarnWithContext(logger, "cannot read link count", "cleanup_stat_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "file was not considered for deletion"),
			)
			continue
		}
		if count != 1 {
			continue
		}
		orphan := Orphan{Path: path, LinkCount: count}
		if info, err := os.Stat(path); err == nil {
			orphan.Size = info.Size()
		}
		logger.Info("Found orphaned file", logging.String("path", path), logging.Int64("size", orphan.Size))
		orphans = append(orphans, orphan)
	}

	logger.Info(fmt.Sprintf("Found %d orphaned files", len(orphans)), logging.Int("scanned", len(files)))
	return orphans, nil
}

// Clean deletes orphans after confirmation. Link counts are read again just
// before each deletion and files that regained a link are kept. Each removed
// file's parent is removed too when it is empty and is not the staging root.
// Errors are collected per path and never stop the sweep.
func (r *Reconciler) Clean(ctx context.Context, orphans []Orphan, confirm Confirmer) CleanupResult {
	logger := logging.WithContext(ctx, r.logger)
	result := CleanupResult{}
	if len(orphans) == 0 {
		logger.Info("No orphaned files found")
		return result
	}

	if confirm == nil {
		result.Cancelled = true
		logger.Info("Cleanup cancelled", logging.String("reason", "no confirmer"))
		return result
	}
	ok, err := confirm.Confirm(ctx, orphans)
	if err != nil || !ok {
		result.Cancelled = true
		attrs := []logging.Attr{logging.Int("orphans", len(orphans))}
		if err != nil {
			attrs = append(attrs, logging.Error(err))
		}
		logger.Info("Cleanup cancelled", logging.Args(attrs...)...)
		return result
	}

	for _, orphan := range orphans {
		count, err := r.linkCount(orphan.Path)
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: orphan.Path, Error: err})
			logging.WarnWithContext(logger, "cannot re-check link count", "cleanup_stat_failed",
				logging.String("path", orphan.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "file was not deleted"),
			)
			continue
		}
		if count > 1 {
			result.Relinked = append(result.Relinked, orphan.Path)
			logger.Info("Keeping file linked since the scan",
				logging.String("path", orphan.Path),
				logging.Int64("link_count", int64(count)),
			)
			continue
		}
		if err := os.Remove(orphan.Path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: orphan.Path, Error: err})
			logging.WarnWithContext(logger, "failed to delete orphaned file", "cleanup_delete_failed",
				logging.String("path", orphan.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check staging_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, orphan.Path)
		result.Freed += orphan.Size
		logger.Info("Deleted orphaned file", logging.String("path", orphan.Path))
		r.forget(ctx, logger, orphan.Path)

		if dir, removed, err := r.removeEmptyParent(orphan.Path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
			logging.WarnWithContext(logger, "failed to remove empty directory", "cleanup_rmdir_failed",
				logging.String("path", dir),
				logging.Error(err),
				logging.String(logging.FieldImpact, "empty directory left in staging"),
			)
		} else if removed {
			result.RemovedDirs = append(result.RemovedDirs, dir)
			logger.Info("Removed empty directory", logging.String("path", dir))
		}
	}

	logger.Info(fmt.Sprintf("Cleanup complete: deleted %d/%d files", len(result.Removed), len(orphans)),
		logging.Int("errors", len(result.Errors)),
		logging.Int64("freed_bytes", result.Freed),
	)
	return result
}

func (r *Reconciler) removeEmptyParent(path string) (string, bool, error) {
	dir := filepath.Dir(path)
	if filepath.Clean(dir) == r.root {
		return dir, false, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dir, false, nil
		}
		return dir, false, err
	}
	if len(entries) > 0 {
		return dir, false, nil
	}
	if err := os.Remove(dir); err != nil {
		return dir, false, err
	}
	return dir, true, nil
}

func (r *Reconciler) forget(ctx context.Context, logger *slog.Logger, path string) {
	if r.forgetter == nil {
		return
	}
	if err := r.forgetter.Forget(ctx, path); err != nil {
		logger.Debug("failed to prune index entry", logging.String("path", path), logging.Error(err))
	}
}
