package fileutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
)

// WalkOptions tunes WalkFiles.
type WalkOptions struct {
	// Extensions selects which regular files are returned.
	Extensions ExtensionSet
	// SkipDirs lists directories that are not descended into.
	SkipDirs []string
	// OnError is told about unreadable entries, which are then skipped.
	OnError func(path string, err error)
}

// WalkFiles recursively lists regular files under root whose extension is in
// opts.Extensions, sorted lexicographically. Symlinks are not followed.
func WalkFiles(ctx context.Context, root string, opts WalkOptions) ([]string, error) {
	skip := make(map[string]struct{}, len(opts.SkipDirs))
	for _, dir := range opts.SkipDirs {
		if dir == "" {
			continue
		}
		skip[filepath.Clean(dir)] = struct{}{}
	}
	root = filepath.Clean(root)

	var files []string
	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if de.IsDir() {
				if osPathname == root {
					return nil
				}
				if _, ok := skip[filepath.Clean(osPathname)]; ok {
					return filepath.SkipDir
				}
				return nil
			}
			if !de.IsRegular() {
				return nil
			}
			if opts.Extensions.Matches(osPathname) {
				files = append(files, osPathname)
			}
			return nil
		},
		ErrorCallback: func(osPathname string, err error) godirwalk.ErrorAction {
			if ctx.Err() != nil {
				return godirwalk.Halt
			}
			if opts.OnError != nil {
				opts.OnError(osPathname, err)
			}
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsWithin reports whether path lies strictly below root.
func IsWithin(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// NestedDirs returns the entries of dirs that lie strictly below root.
func NestedDirs(root string, dirs ...string) []string {
	var nested []string
	for _, dir := range dirs {
		if dir != "" && IsWithin(root, dir) {
			nested = append(nested, filepath.Clean(dir))
		}
	}
	return nested
}
