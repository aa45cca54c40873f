package fileutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"medialink/internal/fileutil"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestExtensionSetMatchesCaseInsensitively(t *testing.T) {
	set := fileutil.NewExtensionSet([]string{".mkv", "MP4", " "})
	for path, want := range map[string]bool{
		"a.MKV":     true,
		"b.mp4":     true,
		"c.avi":     false,
		"noext":     false,
		"d.mkv.txt": false,
	} {
		if got := set.Matches(path); got != want {
			t.Errorf("Matches(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWalkFilesSortsAndFilters(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "z.mkv"))
	touch(t, filepath.Join(root, "b", "a.mp4"))
	touch(t, filepath.Join(root, "b", "notes.txt"))
	touch(t, filepath.Join(root, "library", "skip.mkv"))
	if err := os.Symlink(filepath.Join(root, "z.mkv"), filepath.Join(root, "link.mkv")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	files, err := fileutil.WalkFiles(context.Background(), root, fileutil.WalkOptions{
		Extensions: fileutil.NewExtensionSet([]string{".mkv", ".mp4"}),
		SkipDirs:   []string{filepath.Join(root, "library")},
	})
	if err != nil {
		t.Fatalf("WalkFiles: %v", err)
	}
	want := []string{filepath.Join(root, "b", "a.mp4"), filepath.Join(root, "z.mkv")}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("WalkFiles = %v, want %v", files, want)
	}
}

func TestWalkFilesHonoursCancellation(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mkv"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var reported []string
	files, err := fileutil.WalkFiles(ctx, root, fileutil.WalkOptions{
		Extensions: fileutil.NewExtensionSet([]string{".mkv"}),
		OnError:    func(path string, err error) { reported = append(reported, path) },
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if files != nil {
		t.Fatalf("expected no files after cancellation, got %v", files)
	}
	if len(reported) != 0 {
		t.Fatalf("cancellation must not be reported as unreadable paths: %v", reported)
	}
}

func TestNestedDirs(t *testing.T) {
	root := filepath.Join("/srv", "staging")
	got := fileutil.NestedDirs(root,
		filepath.Join(root, "library", "movies"),
		"/srv/tv",
		root,
		"/srv/staging-other",
		"",
	)
	want := []string{filepath.Join(root, "library", "movies")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NestedDirs = %v, want %v", got, want)
	}
	if fileutil.IsWithin(root, root) {
		t.Fatal("a directory is not within itself")
	}
}

func TestStatTracksHardLinks(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mkv")
	touch(t, src)

	count, err := fileutil.LinkCount(src)
	if err != nil {
		t.Fatalf("LinkCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 link, got %d", count)
	}

	dst := filepath.Join(dir, "dst.mkv")
	if err := os.Link(src, dst); err != nil {
		t.Fatalf("link: %v", err)
	}
	a, err := fileutil.Stat(src)
	if err != nil {
		t.Fatalf("Stat src: %v", err)
	}
	b, err := fileutil.Stat(dst)
	if err != nil {
		t.Fatalf("Stat dst: %v", err)
	}
	if !a.SameFile(b) || a.LinkCount != 2 {
		t.Fatalf("expected shared inode with 2 links, got %+v %+v", a, b)
	}
	same, err := fileutil.SameDevice(src, dir)
	if err != nil || !same {
		t.Fatalf("SameDevice = %v, %v", same, err)
	}
}
