package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"medialink/internal/fileutil"
	"medialink/internal/services/jellyfin"
)

// CheckJellyfin probes the Jellyfin health endpoint.
func CheckJellyfin(ctx context.Context, svc jellyfin.Service) Result {
	const name = "Jellyfin"

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := svc.Health(checkCtx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unreachable (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSameFilesystem verifies that target lives on the same device as the
// staging directory. Hard links across filesystems fail with EXDEV. A target
// that does not exist yet is checked through its nearest existing ancestor.
func CheckSameFilesystem(name, staging, target string) Result {
	existing := nearestExisting(target)
	if existing == "" {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing ancestor)", target)}
	}
	same, err := fileutil.SameDevice(staging, existing)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", target, err)}
	}
	if !same {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: different filesystem from %s, hard links will fail)", target, staging)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (same filesystem as staging)", target)}
}

func nearestExisting(path string) string {
	current := filepath.Clean(path)
	for {
		if _, err := os.Stat(current); err == nil {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}
