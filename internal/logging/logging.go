// Package logging writes the error log and JSON trace shared by every session
// and reports progress lines for --verbose.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogFile = "ultimate-control.log"

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
	progressOut  io.Writer
)

// Error appends err to the log file with a timestamp.
func Error(err error) {
	if err == nil {
		return
	}
	appendLog("logging", func(w io.Writer) error {
		log.New(w, "", log.LstdFlags).Println(err)
		return nil
	})
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// SetProgress sends progress lines to w. nil silences them.
func SetProgress(w io.Writer) {
	mu.Lock()
	progressOut = w
	mu.Unlock()
}

// Progress reports one step of a device operation: "upload a.prg -> /Usb0/a.prg".
// The line goes to the progress writer, and to the trace as a progress event.
func Progress(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	mu.Lock()
	w := progressOut
	mu.Unlock()
	if w != nil {
		fmt.Fprintln(w, msg)
	}
	Trace("progress", map[string]string{"message": msg})
}

// Trace appends a JSON line to the log file when tracing is enabled.
func Trace(event string, payload interface{}) {
	mu.Lock()
	enabled := traceEnabled
	mu.Unlock()
	if !enabled {
		return
	}

	entry := struct {
		Time    time.Time   `json:"time"`
		Event   string      `json:"event"`
		Payload interface{} `json:"payload,omitempty"`
	}{
		Time:    time.Now().UTC(),
		Event:   event,
		Payload: payload,
	}
	appendLog("trace logging", func(w io.Writer) error {
		return json.NewEncoder(w).Encode(entry)
	})
}

// appendLog opens the log file for one write. The console refresh loop and
// the command path both log, so writes are serialised.
func appendLog(what string, write func(io.Writer) error) {
	mu.Lock()
	defer mu.Unlock()
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", what, err)
		return
	}
	defer f.Close()
	if err := write(f); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", what, err)
	}
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		logPath = defaultLogFile
		return
	}
	logPath = path
}

// Path returns the log destination in effect, which is the default when
// Configure could not use the requested one.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}
