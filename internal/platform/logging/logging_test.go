package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: " warning ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewJSONWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Settings{Level: "info", Format: "json"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("hidden")
	logger.Info("content fetched", slog.String("type", "newsEvent"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if record["msg"] != "content fetched" || record["type"] != "newsEvent" {
		t.Fatalf("unexpected record: %v", record)
	}
}

func TestNewConsoleIncludesError(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Settings{Level: "debug", Format: "console", Color: false})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Error("cms query failed", Err(errors.New("boom")))
	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected error text in output, got %q", buf.String())
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, Settings{Level: "verbose"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
