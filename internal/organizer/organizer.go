package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"medialink/internal/fileutil"
	"medialink/internal/index"
	"medialink/internal/library"
	"medialink/internal/logging"
	"medialink/internal/mediainfo"
	"medialink/internal/services"
)

// Options carries the explicit configuration the organizer needs.
type Options struct {
	StagingRoot string
	MoviesRoot  string
	TVRoot      string
	Extensions  []string
	MinorWords  []string
}

// LinkFunc creates a hard link at dst pointing at src.
type LinkFunc func(src, dst string) error

// Option customizes an Organizer.
type Option func(*Organizer)

// WithRecorder records each created link. Recorder failures are logged only.
func WithRecorder(recorder index.Recorder) Option {
	return func(o *Organizer) {
		o.recorder = recorder
	}
}

// WithLinkFunc replaces os.Link, mainly for tests.
func WithLinkFunc(fn LinkFunc) Option {
	return func(o *Organizer) {
		if fn != nil {
			o.link = fn
		}
	}
}

// Organizer hard-links staging files into the movies and TV libraries.
type Organizer struct {
	opts       Options
	extensions fileutil.ExtensionSet
	classifier *mediainfo.Classifier
	resolver   *library.Resolver
	recorder   index.Recorder
	link       LinkFunc
	logger     *slog.Logger
}

// New constructs an organizer.
func New(opts Options, logger *slog.Logger, deps ...Option) *Organizer {
	o := &Organizer{
		opts:       opts,
		extensions: fileutil.NewExtensionSet(opts.Extensions),
		classifier: mediainfo.NewClassifier(mediainfo.NewTitleCaser(opts.MinorWords)),
		resolver:   library.NewResolver(opts.MoviesRoot, opts.TVRoot),
		link:       os.Link,
		logger:     logging.NewComponentLogger(logger, "organizer"),
	}
	for _, dep := range deps {
		dep(o)
	}
	return o
}

// FileResult is the outcome of organizing one staging file.
type FileResult struct {
	Source      string
	Destination string
	Metadata    mediainfo.Metadata
	Replaced    bool
	Err         error
}

// Succeeded reports whether the link was created.
func (r FileResult) Succeeded() bool {
	return r.Err == nil
}

// Summary reports the outcome of an organize run.
type Summary struct {
	Root      string
	Total     int
	Succeeded int
	Failed    int
	Results   []FileResult
	Duration  time.Duration
	// Interrupted is set when the context was cancelled before every file was
	// processed. Results then cover a sorted prefix of the discovered files.
	Interrupted bool
}

// Failures returns the results that did not produce a link.
func (s Summary) Failures() []FileResult {
	var failed []FileResult
	for _, result := range s.Results {
		if !result.Succeeded() {
			failed = append(failed, result)
		}
	}
	return failed
}

// Organize links every recognized file under root. An empty root means the
// staging root. Only a missing or non-directory root is fatal; per-file
// failures are reported in the summary.
func (o *Organizer) Organize(ctx context.Context, root string) (Summary, error) {
	if root == "" {
		root = o.opts.StagingRoot
	}
	root = filepath.Clean(root)
	logger := logging.WithContext(ctx, o.logger)
	summary := Summary{Root: root}
	started := time.Now()

	info, err := os.Stat(root)
	if err != nil {
		logger.Error("Target directory does not exist", logging.String("path", root), logging.Error(err),
			logging.String(logging.FieldEventType, "organize_root_missing"),
			logging.String(logging.FieldErrorHint, "check paths.staging_dir or the path passed by the download client"),
		)
		return summary, services.Wrap(services.ErrConfiguration, "organize", "stat root", "Target directory does not exist: "+root, err)
	}
	if !info.IsDir() {
		logger.Error("Target is not a directory", logging.String("path", root),
			logging.String(logging.FieldEventType, "organize_root_not_dir"),
			logging.String(logging.FieldErrorHint, "pass a directory, not a single file"),
		)
		return summary, services.Wrap(services.ErrConfiguration, "organize", "stat root", "Target is not a directory: "+root, nil)
	}

	logger.Info("Starting media organization", logging.String("path", root))

	files, err := o.Discover(ctx, root)
	if err != nil {
		return summary, err
	}
	summary.Total = len(files)

	for _, path := range files {
		if ctx.Err() != nil {
			summary.Interrupted = true
			logging.WarnWithContext(logger, "Organization interrupted", "organize_interrupted",
				logging.Int("processed", len(summary.Results)),
				logging.Int("remaining", len(files)-len(summary.Results)),
				logging.String(logging.FieldImpact, "remaining files were not organized"),
				logging.String(logging.FieldErrorHint, "rerun medialink to finish; completed links are kept"),
			)
			break
		}
		result := o.OrganizeFile(ctx, path)
		summary.Results = append(summary.Results, result)
		if result.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	summary.Duration = time.Since(started)
	logger.Info(
		fmt.Sprintf("Successfully organized %d/%d files", summary.Succeeded, summary.Total),
		logging.Int("failed", summary.Failed),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// OrganizeFile classifies, resolves, and links a single staging file.
func (o *Organizer) OrganizeFile(ctx context.Context, path string) FileResult {
	logger := logging.WithContext(ctx, o.logger)
	meta := o.classifier.ClassifyPath(path)
	dest := o.resolver.Resolve(meta, filepath.Base(path))
	result := FileResult{Source: path, Destination: dest.Path(), Metadata: meta}

	attrs := []logging.Attr{
		logging.String("source", path),
		logging.String("destination", result.Destination),
		logging.String("kind", string(meta.Kind)),
		logging.String("title", meta.Title),
	}
	if meta.Match == mediainfo.MatchNone {
		logger.Debug("no episode or year token; treating as undated movie", logging.Args(attrs...)...)
	}

	replaced, err := o.placeLink(path, dest)
	result.Replaced = replaced
	if err != nil {
		result.Err = err
		logger.Error("Failed to link",
			logging.Args(append(attrs,
				logging.Error(err),
				logging.String("reason", services.FailureReason(err)),
			)...)...,
		)
		return result
	}

	logger.Info("Hard linked", logging.Args(append(attrs, logging.Bool("replaced", replaced))...)...)
	o.record(ctx, logger, result)
	return result
}

func (o *Organizer) record(ctx context.Context, logger *slog.Logger, result FileResult) {
	if o.recorder == nil {
		return
	}
	entry := index.Entry{
		Source:      result.Source,
		Destination: result.Destination,
		Kind:        string(result.Metadata.Kind),
		Title:       result.Metadata.Title,
		Year:        result.Metadata.Year,
		Season:      result.Metadata.Season,
		Episode:     result.Metadata.Episode,
		LinkedAt:    time.Now(),
	}
	if id, err := fileutil.Stat(result.Destination); err == nil {
		entry.Inode = id.Inode
		entry.Device = id.Device
	}
	if err := o.recorder.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logger, "failed to record link in index", "index_record_failed",
			logging.String("destination", result.Destination),
			logging.Error(err),
			logging.String(logging.FieldImpact, "history output will miss this link"),
		)
	}
}
