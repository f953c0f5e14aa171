package dirwalk

import (
	"path/filepath"
	"testing"

	"github.com/mimecast/xgrep/internal/testutil"
)

func TestWalkVisitsFiles(t *testing.T) {
	base := testutil.TempDir(t)
	testutil.CreateFileTree(t, base, map[string]string{
		"a.txt":        "1\n",
		"sub/b.txt":    "2\n",
		"sub/deep/c.txt": "3\n",
	})

	var visited []string
	matched, errorSeen := Walk(base, nil, func(string) {}, func(path string, known bool) (bool, bool) {
		visited = append(visited, path)
		return true, false
	})

	if !matched {
		t.Error("expected at least one match")
	}
	if errorSeen {
		t.Error("expected no errors")
	}
	if len(visited) != 3 {
		t.Errorf("expected 3 files visited, got %d: %v", len(visited), visited)
	}
}

func TestWalkDetectsLoop(t *testing.T) {
	base := testutil.TempDir(t)
	a, _ := testutil.CreateLoop(t, base)

	var warnings []string
	_, errorSeen := Walk(a, nil, func(path string) {
		warnings = append(warnings, path)
	}, func(path string, known bool) (bool, bool) {
		return false, false
	})

	if !errorSeen {
		t.Error("expected errorSeen for a cyclic branch")
	}
	if len(warnings) == 0 {
		t.Error("expected at least one recursive-loop warning")
	}
}

func TestJoinChild(t *testing.T) {
	if got := joinChild("/tmp", "a"); got != "/tmp/a" {
		t.Errorf("expected /tmp/a, got %s", got)
	}
	if got := joinChild("/tmp/", "a"); got != "/tmp/a" {
		t.Errorf("expected /tmp/a, got %s", got)
	}
}

func TestWalkReturnsErrorOnUnreadableDir(t *testing.T) {
	missing := filepath.Join(testutil.TempDir(t), "does-not-exist")
	_, errorSeen := Walk(missing, nil, func(string) {}, func(path string, known bool) (bool, bool) {
		return false, false
	})
	if !errorSeen {
		t.Error("expected errorSeen for a missing directory")
	}
}
