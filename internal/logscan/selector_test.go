package logscan

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touchFile(t *testing.T, dir, name string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("setting mtime on %s: %v", name, err)
	}
	return path
}

func TestSelectRecent_HorizonFilter(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	fresh := touchFile(t, dir, "fresh.log", now.Add(-1*time.Hour))
	touchFile(t, dir, "stale.log", now.Add(-48*time.Hour))

	files := SelectRecent(dir, DefaultHorizon, now)
	if len(files) != 1 {
		t.Fatalf("files = %d, want 1", len(files))
	}
	if files[0] != fresh {
		t.Errorf("selected %s, want %s", files[0], fresh)
	}
}

func TestSelectRecent_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	older := touchFile(t, dir, "a.log", now.Add(-3*time.Hour))
	newer := touchFile(t, dir, "b.log", now.Add(-1*time.Hour))

	files := SelectRecent(dir, DefaultHorizon, now)
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2", len(files))
	}
	if files[0] != newer || files[1] != older {
		t.Errorf("order = %v, want newest first", files)
	}
}

func TestSelectRecent_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	touchFile(t, dir, "only.log", now.Add(-time.Hour))

	files := SelectRecent(dir, DefaultHorizon, now)
	if len(files) != 1 {
		t.Errorf("files = %d, want 1 (directories skipped)", len(files))
	}
}

func TestSelectRecent_MissingDir(t *testing.T) {
	files := SelectRecent(filepath.Join(t.TempDir(), "nope"), DefaultHorizon, time.Now())
	if files != nil {
		t.Errorf("files = %v, want nil", files)
	}
}

func TestResolve_FirstExistingWins(t *testing.T) {
	existing := t.TempDir()
	missing := filepath.Join(existing, "missing")

	source := Resolve([]string{missing, existing})
	if !source.Found {
		t.Fatal("should resolve the existing candidate")
	}
	if source.Dir != existing {
		t.Errorf("dir = %s, want %s", source.Dir, existing)
	}
}

func TestResolve_NoneFound(t *testing.T) {
	source := Resolve([]string{filepath.Join(t.TempDir(), "missing")})
	if source.Found {
		t.Error("nothing should resolve")
	}
}

func TestResolve_FileIsNotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := touchFile(t, dir, "file.log", time.Now())

	source := Resolve([]string{file})
	if source.Found {
		t.Error("a regular file must not resolve as a log directory")
	}
}

func TestCandidateDirs_OverrideIsAuthoritative(t *testing.T) {
	dirs := CandidateDirs("/custom/override")
	if len(dirs) != 1 || dirs[0] != "/custom/override" {
		t.Errorf("dirs = %v, want the override as the sole candidate", dirs)
	}
}

func TestCandidateDirs_MissingOverrideDoesNotFallBack(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	source := Resolve(CandidateDirs(missing))
	if source.Found {
		t.Errorf("resolved %s, a missing override must not fall back to platform dirs", source.Dir)
	}
}

func TestCandidateDirs_NoOverrideProbesPlatformDirs(t *testing.T) {
	if len(CandidateDirs("")) == 0 {
		t.Error("expected platform candidates without an override")
	}
}
