package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"medialink/internal/fileutil"
)

// WriteFile creates path, including parents, with contents derived from its
// name so distinct fixtures never compare equal.
func WriteFile(t testing.TB, path string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("fixture:"+filepath.Base(path)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Link hard-links src to dst, creating dst's parent.
func Link(t testing.TB, src, dst string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", dst, err)
	}
	if err := os.Link(src, dst); err != nil {
		t.Fatalf("link %s -> %s: %v", src, dst, err)
	}
}

// Identity stats path or fails the test.
func Identity(t testing.TB, path string) fileutil.Identity {
	t.Helper()

	id, err := fileutil.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	return id
}
