package organizer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"medialink/internal/library"
	"medialink/internal/services"
)

// placeLink creates dest's directory, removes any existing file at the
// destination, and links src there. It reports whether a file was replaced.
func (o *Organizer) placeLink(src string, dest library.Destination) (bool, error) {
	target := dest.Path()
	if filepath.Clean(src) == filepath.Clean(target) {
		return false, services.Wrap(services.ErrValidation, "organize", "link",
			"destination is the source file: "+target, nil)
	}

	if err := os.MkdirAll(dest.Dir, 0o755); err != nil {
		return false, fmt.Errorf("create directory %s: %w", dest.Dir, err)
	}

	replaced := false
	info, err := os.Lstat(target)
	switch {
	case err == nil:
		if info.IsDir() {
			return false, services.Wrap(services.ErrValidation, "organize", "link",
				"destination is a directory: "+target, nil)
		}
		if err := os.Remove(target); err != nil {
			return false, fmt.Errorf("remove existing %s: %w", target, err)
		}
		replaced = true
	case errors.Is(err, fs.ErrNotExist):
	default:
		return false, fmt.Errorf("inspect destination %s: %w", target, err)
	}

	if err := o.link(src, target); err != nil {
		return replaced, fmt.Errorf("link %s -> %s: %w", src, target, err)
	}
	return replaced, nil
}
