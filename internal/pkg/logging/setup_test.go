package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Vodeneev/matchsync/internal/pkg/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{" warn ", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(h).With("source", "betman")

	logger.Debug("record skipped", "index", 3)
	logger.Warn("zero yield")

	if !strings.Contains(debugBuf.String(), "record skipped") || !strings.Contains(debugBuf.String(), "zero yield") {
		t.Errorf("debug handler missed records: %q", debugBuf.String())
	}
	if strings.Contains(warnBuf.String(), "record skipped") {
		t.Errorf("warn handler received debug record: %q", warnBuf.String())
	}
	if !strings.Contains(warnBuf.String(), "source=betman") {
		t.Errorf("attrs not propagated: %q", warnBuf.String())
	}
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("multi handler should be enabled at debug")
	}
}

func TestSetupLogger_WritesFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "scraper.log")
	logger, closer, err := SetupLogger(&config.LoggingConfig{Level: "INFO", Format: "json", File: path}, "matchsync")
	if err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}
	logger.Info("Run finished", "saved", 3)
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"Run finished"`) || !strings.Contains(string(data), `"service":"matchsync"`) {
		t.Errorf("unexpected log file contents: %s", data)
	}
}
