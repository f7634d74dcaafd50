package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestOrNopReturnsUsableLogger(t *testing.T) {
	l := OrNop(nil)
	l.Debug(context.Background(), "ignored")
	l.Error(context.Background(), "ignored", "k", "v")
}

func TestSlogAdapterWritesLevels(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	l := NewSlog(slog.New(handler))

	l.Warn(context.Background(), "write rejected", "key", "uistate:customers:filters")

	out := buf.String()
	if !strings.Contains(out, "level=WARN") {
		t.Fatalf("expected warn level in output, got %q", out)
	}
	if !strings.Contains(out, "key=uistate:customers:filters") {
		t.Fatalf("expected key attribute in output, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
