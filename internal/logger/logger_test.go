package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Info("venue fetched", Fields{"venue": "Bowery Ballroom", "candidates": 12})

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, buf.String())
	}
	if entry.Level != "INFO" {
		t.Errorf("Level = %q, want INFO", entry.Level)
	}
	if entry.Message != "venue fetched" {
		t.Errorf("Message = %q", entry.Message)
	}
	if entry.Fields["venue"] != "Bowery Ballroom" {
		t.Errorf("Fields[venue] = %v", entry.Fields["venue"])
	}
	if entry.Timestamp == "" {
		t.Error("Timestamp should be set")
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("dropped", nil)
	l.Info("dropped too", nil)
	l.Warn("kept", nil)

	lines := strings.Count(strings.TrimSpace(buf.String()), "\n") + 1
	if buf.Len() == 0 {
		t.Fatal("expected warn entry to be written")
	}
	if lines != 1 {
		t.Errorf("got %d log lines, want 1", lines)
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("output = %q, want the warn entry", buf.String())
	}
}

func TestLoggerIncludesError(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Error("fetch failed", Fields{"venue": "X"}, errors.New("connection refused"))

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry.Error != "connection refused" {
		t.Errorf("Error = %q, want the wrapped error string", entry.Error)
	}
}
