package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "trace.log")
	Configure(path)
	t.Cleanup(func() {
		Configure("")
		SetTraceEnabled(false)
		SetProgress(nil)
	})
	return path
}

func TestTraceDisabledWritesNothing(t *testing.T) {
	path := useTempLog(t)
	SetTraceEnabled(false)
	Trace("nav.keys", map[string]interface{}{"key": "up"})
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file, got %v", err)
	}
}

func TestTraceWritesJSONLines(t *testing.T) {
	path := useTempLog(t)
	SetTraceEnabled(true)
	Trace("nav.keys", map[string]interface{}{"key": "up", "count": 3})
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	var entry struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("expected JSON entry, got %q: %v", data, err)
	}
	if entry.Event != "nav.keys" || entry.Payload["key"] != "up" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestErrorAppends(t *testing.T) {
	path := useTempLog(t)
	Error(errors.New("first"))
	Error(nil)
	Error(errors.New("second"))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Fatalf("expected both errors logged, got %q", data)
	}
}

func TestConfigureEmptyRestoresDefault(t *testing.T) {
	useTempLog(t)
	Configure("  ")
	if Path() != defaultLogFile {
		t.Fatalf("expected default path, got %q", Path())
	}
}

func TestProgressGoesToWriterAndTrace(t *testing.T) {
	path := useTempLog(t)
	var out bytes.Buffer
	SetProgress(&out)
	SetTraceEnabled(true)
	Progress("upload %s -> %s", "a.prg", "/Usb0/a.prg")
	if out.String() != "upload a.prg -> /Usb0/a.prg\n" {
		t.Fatalf("expected progress line, got %q", out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), `"event":"progress"`) || !strings.Contains(string(data), `a.prg -\u003e /Usb0/a.prg`) {
		t.Fatalf("expected progress trace, got %q", data)
	}
}

func TestProgressSilentByDefault(t *testing.T) {
	path := useTempLog(t)
	Progress("run %s", "/Usb0/x.prg")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected nothing logged, got %v", err)
	}
}

func TestConfigureFallsBackWhenDirectoryFails(t *testing.T) {
	useTempLog(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	Configure(filepath.Join(blocker, "sub", "x.log"))
	if Path() != defaultLogFile {
		t.Fatalf("expected default path, got %q", Path())
	}
}
