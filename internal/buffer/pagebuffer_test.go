package buffer

import (
	"os"
	"strings"
	"testing"

	"github.com/mimecast/xgrep/internal/testutil"
)

func TestPageBufferFillBasic(t *testing.T) {
	content := "line one\nline two\nline three\n"
	path := testutil.TempFile(t, content)

	fd, err := os.Open(path)
	testutil.AssertNoError(t, err)
	defer fd.Close()

	pb := New()
	testutil.AssertNoError(t, pb.Reset(fd, true, 0, false, false))
	defer pb.Close()

	ok, err := pb.Fill(0)
	testutil.AssertNoError(t, err)
	if !ok {
		t.Fatal("expected Fill to report data available")
	}

	if got := string(pb.Bytes()); got != content {
		t.Errorf("expected %q, got %q", content, got)
	}
}

func TestPageBufferFillEOF(t *testing.T) {
	path := testutil.TempFile(t, "short\n")

	fd, err := os.Open(path)
	testutil.AssertNoError(t, err)
	defer fd.Close()

	pb := New()
	testutil.AssertNoError(t, pb.Reset(fd, true, 0, false, false))
	defer pb.Close()

	ok, err := pb.Fill(0)
	testutil.AssertNoError(t, err)
	if !ok {
		t.Fatal("expected first Fill to report data")
	}

	ok, err = pb.Fill(0)
	testutil.AssertNoError(t, err)
	if ok {
		t.Error("expected second Fill at EOF to report no data")
	}
}

func TestPageBufferSaveRegionGrowth(t *testing.T) {
	// Force a save region larger than the default minimum to exercise
	// growSaveRegion's doubling and page-rounding path.
	content := strings.Repeat("x", 64*1024) + "\n"
	path := testutil.TempFile(t, content)

	fd, err := os.Open(path)
	testutil.AssertNoError(t, err)
	defer fd.Close()

	pb := New()
	testutil.AssertNoError(t, pb.Reset(fd, true, 0, false, false))
	defer pb.Close()

	ok, err := pb.Fill(0)
	testutil.AssertNoError(t, err)
	if !ok {
		t.Fatal("expected data")
	}

	window := pb.Bytes()
	ok, err = pb.Fill(len(window))
	testutil.AssertNoError(t, err)
	if pb.saveRegionSize < len(window) {
		t.Errorf("expected save region to grow to at least %d, got %d", len(window), pb.saveRegionSize)
	}
	_ = ok
}

func TestPageBufferCRLFTranslation(t *testing.T) {
	path := testutil.TempFile(t, "a\r\nb\r\n")

	fd, err := os.Open(path)
	testutil.AssertNoError(t, err)
	defer fd.Close()

	pb := New()
	testutil.AssertNoError(t, pb.Reset(fd, true, 0, false, false))
	defer pb.Close()

	_, err = pb.Fill(0)
	testutil.AssertNoError(t, err)

	if got := string(pb.Bytes()); got != "a\nb\n" {
		t.Errorf("expected CRLF translated to LF, got %q", got)
	}
}

func TestPageBufferPreserveCR(t *testing.T) {
	path := testutil.TempFile(t, "a\r\nb\r\n")

	fd, err := os.Open(path)
	testutil.AssertNoError(t, err)
	defer fd.Close()

	pb := New()
	testutil.AssertNoError(t, pb.Reset(fd, true, 0, false, true))
	defer pb.Close()

	_, err = pb.Fill(0)
	testutil.AssertNoError(t, err)

	if got := string(pb.Bytes()); got != "a\r\nb\r\n" {
		t.Errorf("expected CR preserved, got %q", got)
	}
}
