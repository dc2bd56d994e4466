package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/polkiloo/storefront/internal/config"
)

func TestNewProvidesJSONLogger(t *testing.T) {
	l := New(&config.Config{LogLevel: slog.LevelInfo})
	if l == nil {
		t.Fatal("expected logger, got nil")
	}

	if !l.Enabled(context.Background(), slog.LevelInfo) {
		t.Errorf("expected info level to be enabled")
	}
	if l.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("did not expect debug level to be enabled")
	}
}

func TestNewLoggerHonoursLevelAndTagsService(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, slog.LevelWarn)

	l.Info("skipped")
	if buf.Len() != 0 {
		t.Fatalf("expected info entry to be filtered, got %q", buf.String())
	}

	l.Warn("cart lock contended", slog.Int64("customer_id", 7))
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["service"] != serviceName || entry["level"] != "WARN" || entry["customer_id"] != float64(7) {
		t.Fatalf("unexpected log entry %v", entry)
	}
}
