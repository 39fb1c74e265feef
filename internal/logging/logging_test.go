package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetLogLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	if got := GetLogLevel(); got != "info" {
		t.Errorf("default level = %s", got)
	}
	t.Setenv(EnvLogLevel, "debug")
	if got := GetLogLevel(); got != "debug" {
		t.Errorf("level = %s", got)
	}
	for _, l := range Levels {
		if !ValidLevel(l) {
			t.Errorf("ValidLevel(%s) = false", l)
		}
	}
	if ValidLevel("loud") {
		t.Error("ValidLevel(loud) = true")
	}
}

func TestLoggerFileSink(t *testing.T) {
	t.Setenv(EnvJSONLog, "")
	var console, file bytes.Buffer
	logger := NewLogger("p4studio", "info", &console)
	AttachFile(logger, &file)

	logger.Debug("compiler output", "line", 1)
	logger.Info("configured")

	if strings.Contains(console.String(), "compiler output") {
		t.Errorf("debug record reached the console:\n%s", console.String())
	}
	if !strings.Contains(console.String(), "configured") {
		t.Errorf("console = %q", console.String())
	}
	if !strings.Contains(file.String(), "compiler output") || !strings.Contains(file.String(), "configured") {
		t.Errorf("file = %q", file.String())
	}
}

func TestLoggerJSON(t *testing.T) {
	t.Setenv(EnvJSONLog, "1")
	var buf bytes.Buffer
	NewLogger("p4studio", "info", &buf).Info("hello")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"@message":"hello"`) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestOpenLogFileCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "p4studio.log")
	f, err := OpenLogFile(path)
	if err != nil {
		t.Fatalf("OpenLogFile: %v", err)
	}
	f.Close()
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}

func TestPrinter(t *testing.T) {
	var out, log bytes.Buffer
	p := NewPrinter(&out)
	p.SetLog(&log)
	p.log.(*StampWriter).now = func() time.Time { return time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC) }

	p.Green("Building %s...", "SDE")
	p.Check(true, "Free space >= 20GB: 31.00GB")
	p.Check(false, "tofino2")
	p.Error("boom")

	want := "Building SDE...\n ✓ Free space >= 20GB: 31.00GB\n ✗ tofino2\nError: boom\n"
	if out.String() != want {
		t.Errorf("out = %q, want %q", out.String(), want)
	}
	if !strings.HasPrefix(log.String(), "2021-01-02 03:04:05: Building SDE...\n") {
		t.Errorf("log = %q", log.String())
	}
}

func TestStampWriterBuffersPartialLines(t *testing.T) {
	var buf bytes.Buffer
	w := NewStampWriter(&buf)
	w.now = func() time.Time { return time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC) }
	w.Write([]byte("par"))
	if buf.Len() != 0 {
		t.Fatalf("partial line written: %q", buf.String())
	}
	w.Write([]byte("tial\nnext\n"))
	want := "2021-01-02 03:04:05: partial\n2021-01-02 03:04:05: next\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestColumnize(t *testing.T) {
	got := Columnize([]string{"a", "bb", "c"}, 2, 1)
	want := "a  c \nbb   "
	if got != want {
		t.Errorf("Columnize = %q, want %q", got, want)
	}
	if Columnize(nil, 2, 1) != "" {
		t.Error("Columnize(nil) not empty")
	}
}
