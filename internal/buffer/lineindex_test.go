package buffer

import "testing"

func TestLineIndexAdvance(t *testing.T) {
	li := NewLineIndex()

	trailing := li.Advance([]byte("one\ntwo\nthr"), 0)
	if string(trailing) != "thr" {
		t.Errorf("expected trailing %q, got %q", "thr", trailing)
	}
	if li.totalLinesBefore != 2 {
		t.Errorf("expected 2 lines before, got %d", li.totalLinesBefore)
	}

	trailing = li.Advance([]byte("ee\nfour\n"), 11)
	if trailing != nil {
		t.Errorf("expected no trailing bytes after a newline-terminated window, got %q", trailing)
	}
	if li.totalLinesBefore != 4 {
		t.Errorf("expected 4 lines before, got %d", li.totalLinesBefore)
	}
}

func TestLineIndexLineNumber(t *testing.T) {
	li := NewLineIndex()
	li.Advance([]byte("a\nb\nc\n"), 0)

	if n := li.LineNumber(0); n != 4 {
		t.Errorf("expected line 4, got %d", n)
	}
}

func TestLineIndexMarkEmitted(t *testing.T) {
	li := NewLineIndex()
	li.MarkEmitted(128)
	if li.LastEmittedEnd() != 128 {
		t.Errorf("expected 128, got %d", li.LastEmittedEnd())
	}
}
