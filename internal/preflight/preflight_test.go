package preflight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"medialink/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckSameFilesystem(t *testing.T) {
	base := t.TempDir()
	staging := filepath.Join(base, "staging")
	if err := os.MkdirAll(staging, 0o755); err != nil {
		t.Fatal(err)
	}

	result := CheckSameFilesystem("movies", staging, filepath.Join(base, "library", "movies"))
	if !result.Passed {
		t.Fatalf("expected missing target to resolve via its ancestor: %s", result.Detail)
	}

	result = CheckSameFilesystem("movies", filepath.Join(base, "missing"), base)
	if result.Passed {
		t.Fatal("expected failure when staging cannot be stat'ed")
	}
}

type fakeJellyfin struct{ err error }

func (f fakeJellyfin) Health(context.Context) error  { return f.err }
func (f fakeJellyfin) Refresh(context.Context) error { return nil }

func TestCheckJellyfin(t *testing.T) {
	if result := CheckJellyfin(context.Background(), fakeJellyfin{}); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if result := CheckJellyfin(context.Background(), fakeJellyfin{err: errors.New("refused")}); result.Passed {
		t.Fatal("expected failure")
	}
}

func TestRunAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithJellyfin(server.URL, "", false))
	for _, dir := range []string{cfg.Paths.StagingDir, cfg.Library.MoviesDir, cfg.Library.TVDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 6 {
		t.Fatalf("expected 6 checks, got %d: %+v", len(results), results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %+v", failed)
	}
}

func TestRunAllSkipsFilesystemChecksWithoutStaging(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := RunAll(context.Background(), cfg)
	if len(results) != 3 {
		t.Fatalf("expected only access checks, got %+v", results)
	}
	if len(Failed(results)) != 3 {
		t.Fatalf("expected missing directories to fail, got %+v", results)
	}
}
