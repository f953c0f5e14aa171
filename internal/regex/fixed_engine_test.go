package regex

import "testing"

func TestFixedMatcherBasic(t *testing.T) {
	m, err := newFixedMatcher([]byte("foo\nbar"), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	offset, length, matched := m.Execute([]byte("xx bar yy"))
	if !matched || offset != 3 || length != 3 {
		t.Errorf("got offset=%d length=%d matched=%v, want 3,3,true", offset, length, matched)
	}
}

func TestFixedMatcherPicksEarliest(t *testing.T) {
	m, err := newFixedMatcher([]byte("yy\nxx"), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	offset, _, matched := m.Execute([]byte("zz xx yy"))
	if !matched || offset != 3 {
		t.Errorf("expected the earliest literal to win at offset 3, got offset=%d matched=%v", offset, matched)
	}
}

func TestFixedMatcherCaseInsensitive(t *testing.T) {
	m, err := newFixedMatcher([]byte("HELLO"), Options{CaseInsensitive: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, matched := m.Execute([]byte("say hello")); !matched {
		t.Error("expected a case-insensitive literal match")
	}
}

func TestFixedMatcherWordBoundary(t *testing.T) {
	m, err := newFixedMatcher([]byte("cat"), Options{WordMatch: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, matched := m.Execute([]byte("concatenate")); matched {
		t.Error("expected no match inside a larger word")
	}
	if _, _, matched := m.Execute([]byte("a cat sat")); !matched {
		t.Error("expected a match on a standalone word")
	}
}

func TestFixedMatcherNoMatch(t *testing.T) {
	m, err := newFixedMatcher([]byte("zzz"), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, matched := m.Execute([]byte("abc")); matched {
		t.Error("expected no match")
	}
}
