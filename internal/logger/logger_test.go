package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFunctions(t *testing.T) {
	Init("invalid") // should default to info
	if log == nil {
		t.Fatal("log not initialized")
	}
	// Avoid os.Exit on Fatal
	log.ExitFunc = func(int) {}

	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
	Debugf("%s", "debugf")
	Infof("%s", "infof")
	Warnf("%s", "warnf")
	Errorf("%s", "errorf")
	Fatal("fatal")
	Fatalf("%s", "fatalf")

	out := buf.String()
	if strings.Contains(out, "msg=debug") {
		t.Error("debug output should be suppressed at info level")
	}
	if !strings.Contains(out, "msg=warnf") {
		t.Errorf("expected warnf in output, got %q", out)
	}
	if Level() != "info" {
		t.Errorf("Level() = %s, want info", Level())
	}
}

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer func() {
		Init("info")
		SetOutput(&bytes.Buffer{})
	}()

	Init("debug", "json")
	WithField("category", "system-caches").Debug("walk")

	if !strings.Contains(buf.String(), `"category":"system-caches"`) {
		t.Errorf("expected JSON field in output, got %q", buf.String())
	}
}
