package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDefaultLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "insight.log")

	l, err := NewDefaultLogger(&Config{
		LogFilePath: logPath,
		MaxFileSize: 1024,
		MaxBackups:  3,
		Level:       LevelDebug,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer l.Close()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestWriterLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, LevelDebug)

	l.Debug("resolving label", String("env", "figure"))
	l.Info("scan finished", Int("occurrences", 3))
	l.Warn("stub cache miss", Bool("persisted", false))
	l.Error("cannot load source", errors.New("boom"), String("path", "main.tex"))

	out := buf.String()
	for _, want := range []string{
		"[DEBUG] resolving label env=figure",
		"[INFO] scan finished occurrences=3",
		"[WARN] stub cache miss persisted=false",
		"[ERROR] cannot load source error=\"boom\" path=main.tex",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, LevelWarn)

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("visible warn")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below the level leaked: %s", out)
	}
	if !strings.Contains(out, "visible warn") {
		t.Errorf("warn message missing: %s", out)
	}

	buf.Reset()
	l.SetLevel(LevelDebug)
	l.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("SetLevel did not lower the threshold")
	}
}

func TestLogRotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rotate.log")

	l, err := NewDefaultLogger(&Config{
		LogFilePath: logPath,
		MaxFileSize: 200,
		MaxBackups:  2,
		Level:       LevelInfo,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	for i := 0; i < 20; i++ {
		l.Info("a reasonably long line that forces rotation", Int("i", i))
	}
	l.Close()

	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("expected first backup to exist: %v", err)
	}
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Errorf("expected no backup beyond MaxBackups, stat err = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Level
		ok    bool
	}{
		{"debug", "debug", LevelDebug, true},
		{"upper warn", "WARN", LevelWarn, true},
		{"warning alias", "warning", LevelWarn, true},
		{"empty means info", "", LevelInfo, true},
		{"error", " error ", LevelError, true},
		{"unknown", "verbose", LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestGlobalLogger(t *testing.T) {
	defer Close()

	// Before installation the global logger swallows everything.
	Info("nobody hears this")

	var buf bytes.Buffer
	SetGlobalLogger(NewWriterLogger(&buf, LevelInfo))
	Info("global info", String("k", "v"))
	Debug("global debug")

	out := buf.String()
	if !strings.Contains(out, "global info k=v") {
		t.Errorf("global Info not written: %s", out)
	}
	if strings.Contains(out, "global debug") {
		t.Errorf("global Debug should be filtered: %s", out)
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestErrFieldWithNil(t *testing.T) {
	f := Err(nil)
	if f.Key != "error" || f.Value != nil {
		t.Errorf("Err(nil) = %+v", f)
	}
}
