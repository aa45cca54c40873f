package fileutil

import (
	"path/filepath"
	"strings"
)

// ExtensionSet matches file extensions case-insensitively.
type ExtensionSet map[string]struct{}

// NewExtensionSet builds a set from values such as ".mkv" or "MP4".
func NewExtensionSet(values []string) ExtensionSet {
	set := make(ExtensionSet, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

// Matches reports whether path carries one of the set's extensions.
func (s ExtensionSet) Matches(path string) bool {
	_, ok := s[strings.ToLower(filepath.Ext(path))]
	return ok
}
