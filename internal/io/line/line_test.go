package line

import "testing"

func TestLineStringIncludesFields(t *testing.T) {
	l := Line{Content: []byte("hello\n"), Number: 3, Offset: 42, Match: true}
	s := l.String()
	want := `Line(Number:3,Offset:42,Match:true,Content:"hello\n")`
	if s != want {
		t.Errorf("got %q, want %q", s, want)
	}
}

func TestLineStringZeroLineNumber(t *testing.T) {
	l := Line{Content: []byte("x\n")}
	s := l.String()
	want := `Line(Number:0,Offset:0,Match:false,Content:"x\n")`
	if s != want {
		t.Errorf("got %q, want %q", s, want)
	}
}
