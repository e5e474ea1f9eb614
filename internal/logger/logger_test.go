package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestHelpersAreNilSafe(t *testing.T) {
	saved := Logger
	Logger = nil
	t.Cleanup(func() { Logger = saved })

	Debug("ignored")
	Info("ignored")
	Warn("ignored")
	Error("ignored")
}

func TestSetOutput(t *testing.T) {
	saved := Logger
	t.Cleanup(func() { Logger = saved })

	var buf bytes.Buffer
	SetOutput(&buf, log.InfoLevel)

	Debug("hidden")
	Warn("capacity exhausted", "item", "t1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered: %s", out)
	}
	if !strings.Contains(out, "capacity exhausted") || !strings.Contains(out, "item=t1") {
		t.Errorf("missing warn output: %s", out)
	}
}

func TestInitCreatesLogFile(t *testing.T) {
	saved := Logger
	t.Cleanup(func() { Logger = saved })

	dir := filepath.Join(t.TempDir(), "logs")
	if err := Init(Config{Dir: dir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Info("started")

	if _, err := os.Stat(filepath.Join(dir, "pacer.log")); err != nil {
		t.Errorf("expected log file: %v", err)
	}
}
