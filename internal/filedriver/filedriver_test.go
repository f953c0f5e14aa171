package filedriver

import (
	"testing"

	"github.com/mimecast/xgrep/internal/config"
	"github.com/mimecast/xgrep/internal/testutil"
)

func TestOpenRegularFile(t *testing.T) {
	path := testutil.TempFile(t, "hello\n")
	cfg := &config.Config{DirPolicy: config.DirRead}

	res := Open(path, cfg, false)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.File == nil || !res.IsRegular {
		t.Fatal("expected a regular file result")
	}
	res.File.Close()
}

func TestOpenDirectoryReadPolicy(t *testing.T) {
	dir := testutil.TempDir(t)
	cfg := &config.Config{DirPolicy: config.DirRead}

	res := Open(dir, cfg, false)
	if res.Err == nil {
		t.Fatal("expected an is-directory error under read policy")
	}
}

func TestOpenDirectorySkipPolicy(t *testing.T) {
	dir := testutil.TempDir(t)
	cfg := &config.Config{DirPolicy: config.DirSkip}

	res := Open(dir, cfg, false)
	if !res.Skip {
		t.Error("expected a silent skip under skip policy")
	}
	if res.Err != nil {
		t.Errorf("expected no error, got %v", res.Err)
	}
}

func TestOpenDirectoryRecursePolicy(t *testing.T) {
	dir := testutil.TempDir(t)
	cfg := &config.Config{DirPolicy: config.DirRecurse}

	res := Open(dir, cfg, false)
	if res.RecursePath != dir {
		t.Errorf("expected RecursePath %q, got %q", dir, res.RecursePath)
	}
}

func TestOpenMissingFile(t *testing.T) {
	cfg := &config.Config{DirPolicy: config.DirRead}
	res := Open("/nonexistent/path/xyz", cfg, false)
	if res.Err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
