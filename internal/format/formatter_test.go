package format

import (
	"bytes"
	"testing"

	"github.com/mimecast/xgrep/internal/config"
	"github.com/mimecast/xgrep/internal/io/line"
	"github.com/mimecast/xgrep/internal/testutil"
)

func baseConfig() *config.Config {
	return &config.Config{
		OutMode: config.OutNormal,
		EOLByte: '\n',
	}
}

func TestFormatterNormalLine(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, baseConfig(), "a.txt", false)

	_, err := f.Emit(line.Line{Content: []byte("hello\n"), Match: true})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, "hello\n", buf.String())
}

func TestFormatterWithFilenameAndLineNumber(t *testing.T) {
	var buf bytes.Buffer
	cfg := baseConfig()
	cfg.ShowLineNumber = true
	f := New(&buf, cfg, "a.txt", true)

	_, err := f.Emit(line.Line{Content: []byte("hello\n"), Number: 3, Match: true})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, "a.txt:3:hello\n", buf.String())
}

func TestFormatterContextSeparator(t *testing.T) {
	var buf bytes.Buffer
	cfg := baseConfig()
	cfg.BeforeContext = 1
	f := New(&buf, cfg, "", false)

	_, _ = f.Emit(line.Line{Content: []byte("one\n")})
	f.Separator()
	_, _ = f.Emit(line.Line{Content: []byte("two\n")})

	testutil.AssertEqual(t, "one\n--\ntwo\n", buf.String())
}

func TestFormatterCountOnly(t *testing.T) {
	var buf bytes.Buffer
	cfg := baseConfig()
	cfg.OutMode = config.OutCountOnly
	f := New(&buf, cfg, "a.txt", true)

	_, _ = f.Emit(line.Line{Content: []byte("x\n"), Match: true})
	_, _ = f.Emit(line.Line{Content: []byte("y\n"), Match: true})
	testutil.AssertNoError(t, f.Flush())

	testutil.AssertEqual(t, "a.txt:2\n", buf.String())
}

func TestFormatterListMatchingFiles(t *testing.T) {
	var buf bytes.Buffer
	cfg := baseConfig()
	cfg.OutMode = config.OutListMatchingFiles
	f := New(&buf, cfg, "a.txt", true)

	cont, _ := f.Emit(line.Line{Content: []byte("x\n"), Match: true})
	if cont {
		t.Error("expected list-files mode to signal stop after first match")
	}
	testutil.AssertNoError(t, f.Flush())

	testutil.AssertEqual(t, "a.txt\n", buf.String())
}

func TestFormatterNullAfterFilename(t *testing.T) {
	var buf bytes.Buffer
	cfg := baseConfig()
	cfg.ShowLineNumber = true
	cfg.NullAfterFilename = true
	f := New(&buf, cfg, "a.txt", true)

	_, _ = f.Emit(line.Line{Content: []byte("x\n"), Number: 1, Match: true})

	testutil.AssertEqual(t, "a.txt\x001:x\n", buf.String())
}

func TestFormatterBinaryMatch(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, baseConfig(), "a.bin", true)

	testutil.AssertNoError(t, f.EmitBinaryMatch("a.bin"))
	testutil.AssertEqual(t, "Binary file a.bin matches\n", buf.String())
}
