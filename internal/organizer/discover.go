package organizer

import (
	"context"

	"medialink/internal/fileutil"
	"medialink/internal/logging"
)

// Discover lists recognized media files under root in lexicographic order.
// Library roots nested inside the walked tree are skipped so organized files
// are never picked up again.
func (o *Organizer) Discover(ctx context.Context, root string) ([]string, error) {
	logger := logging.WithContext(ctx, o.logger)
	skip := fileutil.NestedDirs(root, o.resolver.MoviesRoot(), o.resolver.TVRoot())

	files, err := fileutil.WalkFiles(ctx, root, fileutil.WalkOptions{
		Extensions: o.extensions,
		SkipDirs:   skip,
		OnError: func(path string, err error) {
			logging.WarnWithContext(logger, "skipping unreadable path", "discover_unreadable",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "files below this path were not organized"),
				logging.String(logging.FieldErrorHint, "check permissions on the staging tree"),
			)
		},
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered media files", logging.String("path", root), logging.Int("count", len(files)))
	return files, nil
}
