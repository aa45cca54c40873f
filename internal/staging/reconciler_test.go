package staging_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"medialink/internal/logging"
	"medialink/internal/services"
	"medialink/internal/staging"
	"medialink/internal/testsupport"
)

var videoExts = []string{".mkv", ".mp4"}

func approve() staging.Confirmer {
	return staging.ConfirmFunc(func(context.Context, []staging.Orphan) (bool, error) { return true, nil })
}

type forgetRecorder struct {
	forgotten []string
}

func (f *forgetRecorder) Forget(_ context.Context, source string) error {
	f.forgotten = append(f.forgotten, source)
	return nil
}

func TestFindOrphansUsesLinkCount(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "staging")
	linked := testsupport.WriteFile(t, filepath.Join(root, "linked.mkv"))
	testsupport.Link(t, linked, filepath.Join(base, "library", "linked.mkv"))
	orphan := testsupport.WriteFile(t, filepath.Join(root, "show", "orphan.mp4"))
	testsupport.WriteFile(t, filepath.Join(root, "readme.txt"))

	reconciler := staging.NewReconciler(root, videoExts, logging.NewNop())
	orphans, err := reconciler.FindOrphans(context.Background())
	if err != nil {
		t.Fatalf("FindOrphans: %v", err)
	}
	if len(orphans) != 1 || orphans[0].Path != orphan {
		t.Fatalf("expected only %s, got %+v", orphan, orphans)
	}
	if orphans[0].LinkCount != 1 || orphans[0].Size == 0 {
		t.Fatalf("unexpected orphan details %+v", orphans[0])
	}
}

func TestCleanRemovesOrphansAndEmptyParents(t *testing.T) {
	root := filepath.Join(t.TempDir(), "staging")
	nested := testsupport.WriteFile(t, filepath.Join(root, "show", "orphan.mkv"))
	top := testsupport.WriteFile(t, filepath.Join(root, "top.mkv"))
	keep := testsupport.WriteFile(t, filepath.Join(root, "busy", "orphan.mkv"))
	testsupport.WriteFile(t, filepath.Join(root, "busy", "notes.txt"))

	forgetter := &forgetRecorder{}
	reconciler := staging.NewReconciler(root, videoExts, logging.NewNop(), staging.WithForgetter(forgetter))
	orphans, err := reconciler.FindOrphans(context.Background())
	if err != nil {
		t.Fatalf("FindOrphans: %v", err)
	}
	if len(orphans) != 3 {
		t.Fatalf("expected 3 orphans, got %+v", orphans)
	}

	result := reconciler.Clean(context.Background(), orphans, approve())
	if result.Cancelled || len(result.Errors) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(result.Removed) != 3 {
		t.Fatalf("expected 3 removed files, got %v", result.Removed)
	}
	for _, path := range []string{nested, top, keep} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be deleted, stat err=%v", path, err)
		}
	}
	if _, err := os.Stat(filepath.Dir(nested)); !os.IsNotExist(err) {
		t.Fatalf("empty parent should be removed, stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Dir(keep)); err != nil {
		t.Fatalf("non-empty parent must remain: %v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Fatalf("staging root must never be removed: %v", err)
	}
	if len(result.RemovedDirs) != 1 {
		t.Fatalf("expected one removed directory, got %v", result.RemovedDirs)
	}
	if len(forgetter.forgotten) != 3 {
		t.Fatalf("expected index entries to be pruned, got %v", forgetter.forgotten)
	}

	again, err := reconciler.FindOrphans(context.Background())
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("rescan should find nothing, got %+v", again)
	}
}

func TestCleanLeavesRootWhenLastFileRemoved(t *testing.T) {
	root := filepath.Join(t.TempDir(), "staging")
	testsupport.WriteFile(t, filepath.Join(root, "only.mkv"))

	reconciler := staging.NewReconciler(root, videoExts, logging.NewNop())
	orphans, err := reconciler.FindOrphans(context.Background())
	if err != nil {
		t.Fatalf("FindOrphans: %v", err)
	}
	reconciler.Clean(context.Background(), orphans, approve())
	if _, err := os.Stat(root); err != nil {
		t.Fatalf("staging root removed: %v", err)
	}
}

func TestCleanDeclinedMakesNoChanges(t *testing.T) {
	root := filepath.Join(t.TempDir(), "staging")
	path := testsupport.WriteFile(t, filepath.Join(root, "orphan.mkv"))
	reconciler := staging.NewReconciler(root, videoExts, logging.NewNop())
	orphans, err := reconciler.FindOrphans(context.Background())
	if err != nil {
		t.Fatalf("FindOrphans: %v", err)
	}

	confirmers := map[string]staging.Confirmer{
		"declined": staging.ConfirmFunc(func(context.Context, []staging.Orphan) (bool, error) { return false, nil }),
		"errored":  staging.ConfirmFunc(func(context.Context, []staging.Orphan) (bool, error) { return true, errors.New("eof") }),
		"nil":      nil,
	}
	for name, confirm := range confirmers {
		result := reconciler.Clean(context.Background(), orphans, confirm)
		if !result.Cancelled || len(result.Removed) != 0 {
			t.Fatalf("%s: expected cancelled result, got %+v", name, result)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s: file must remain: %v", name, err)
		}
	}
}

func TestCleanWithoutOrphansSkipsPrompt(t *testing.T) {
	reconciler := staging.NewReconciler(t.TempDir(), videoExts, logging.NewNop())
	called := false
	result := reconciler.Clean(context.Background(), nil, staging.ConfirmFunc(func(context.Context, []staging.Orphan) (bool, error) {
		called = true
		return true, nil
	}))
	if called {
		t.Fatal("confirmer should not be asked when there is nothing to delete")
	}
	if result.Cancelled || len(result.Removed) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestCleanCollectsErrorsAndContinues(t *testing.T) {
	root := filepath.Join(t.TempDir(), "staging")
	present := testsupport.WriteFile(t, filepath.Join(root, "b.mkv"))
	orphans := []staging.Orphan{
		{Path: filepath.Join(root, "a-missing.mkv"), LinkCount: 1},
		{Path: present, LinkCount: 1},
	}

	result := staging.NewReconciler(root, videoExts, logging.NewNop()).Clean(context.Background(), orphans, approve())
	if len(result.Errors) != 1 || result.Errors[0].Path != orphans[0].Path {
		t.Fatalf("expected one collected error, got %+v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != present {
		t.Fatalf("remaining deletions should proceed, got %v", result.Removed)
	}
}

func TestFindOrphansSkipsUnreadableLinkCounts(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "a.mkv"))
	counter := staging.WithLinkCounter(func(string) (uint64, error) { return 0, errors.New("stat failed") })

	orphans, err := staging.NewReconciler(root, videoExts, logging.NewNop(), counter).FindOrphans(context.Background())
	if err != nil {
		t.Fatalf("FindOrphans: %v", err)
	}
	if len(orphans) != 0 {
		t.Fatalf("unreadable files must be skipped, got %+v", orphans)
	}
}

func TestFindOrphansMissingRoot(t *testing.T) {
	reconciler := staging.NewReconciler(filepath.Join(t.TempDir(), "missing"), videoExts, logging.NewNop())
	if _, err := reconciler.FindOrphans(context.Background()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestFindOrphansSkipsNestedLibraryRoots(t *testing.T) {
	root := filepath.Join(t.TempDir(), "staging")
	moviesRoot := filepath.Join(root, "library", "movies")
	download := testsupport.WriteFile(t, filepath.Join(root, "Heat.1995.mkv"))
	libraryCopy := filepath.Join(moviesRoot, "Heat (1995)", "Heat.1995.mkv")
	testsupport.Link(t, download, libraryCopy)
	if err := os.Remove(download); err != nil {
		t.Fatalf("remove download: %v", err)
	}

	reconciler := staging.NewReconciler(root, videoExts, logging.NewNop(),
		staging.WithSkipDirs(moviesRoot, filepath.Join(t.TempDir(), "tv")))
	orphans, err := reconciler.FindOrphans(context.Background())
	if err != nil {
		t.Fatalf("FindOrphans: %v", err)
	}
	if len(orphans) != 0 {
		t.Fatalf("library files must never be orphans, got %+v", orphans)
	}
	reconciler.Clean(context.Background(), orphans, approve())
	if _, err := os.Stat(libraryCopy); err != nil {
		t.Fatalf("library copy must survive cleanup: %v", err)
	}
}

func TestCleanKeepsFilesRelinkedAfterScan(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "staging")
	relinked := testsupport.WriteFile(t, filepath.Join(root, "a.mkv"))
	stale := testsupport.WriteFile(t, filepath.Join(root, "b.mkv"))

	reconciler := staging.NewReconciler(root, videoExts, logging.NewNop())
	orphans, err := reconciler.FindOrphans(context.Background())
	if err != nil {
		t.Fatalf("FindOrphans: %v", err)
	}
	if len(orphans) != 2 {
		t.Fatalf("expected 2 orphans, got %+v", orphans)
	}

	confirm := staging.ConfirmFunc(func(context.Context, []staging.Orphan) (bool, error) {
		testsupport.Link(t, relinked, filepath.Join(base, "library", "a.mkv"))
		return true, nil
	})
	result := reconciler.Clean(context.Background(), orphans, confirm)
	if len(result.Relinked) != 1 || result.Relinked[0] != relinked {
		t.Fatalf("expected %s kept as relinked, got %+v", relinked, result)
	}
	if len(result.Removed) != 1 || result.Removed[0] != stale {
		t.Fatalf("expected only %s removed, got %v", stale, result.Removed)
	}
	if _, err := os.Stat(relinked); err != nil {
		t.Fatalf("relinked file must survive: %v", err)
	}
}
