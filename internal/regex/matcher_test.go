package regex

import "testing"

func TestLookupFallsBackToDefault(t *testing.T) {
	ctor, err := Lookup("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctor == nil {
		t.Fatal("expected the default constructor")
	}
}

func TestLookupUnknownEngine(t *testing.T) {
	// register() never installs this name, so Lookup resolves it to the
	// "default" engine instead of failing.
	if ctor, err := Lookup("nonexistent-engine-xyz"); err != nil || ctor == nil {
		t.Errorf("expected an unregistered engine name to fall back to default, got err=%v", err)
	}
}

func TestLookupKnownEngines(t *testing.T) {
	for _, name := range []string{"basic", "extended", "fixed", "perl", "default"} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Lookup(%q): unexpected error: %v", name, err)
		}
	}
}

func TestSentinelGuard(t *testing.T) {
	slice := []byte("abc")
	if !sentinelGuard(slice, 3, 0) {
		t.Error("expected sentinel match at offset==len(slice), length==0 to be guarded")
	}
	if sentinelGuard(slice, 1, 0) {
		t.Error("a zero-length match before the sentinel must not be guarded")
	}
	if sentinelGuard(slice, 3, 1) {
		t.Error("a nonzero-length match must never be guarded")
	}
}
