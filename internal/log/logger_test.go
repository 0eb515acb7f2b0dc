package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{
		Level:     slog.LevelDebug,
		Component: component,
		Output:    buf,
	})
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, ComponentPipeline)

	logger.Info("hello", FieldCount, 3)

	out := buf.String()
	if !strings.Contains(out, "component=pipeline") || !strings.Contains(out, "count=3") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestWithComponentOverrides(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, ComponentApp).WithComponent(ComponentSheets)

	logger.Warn("careful")

	if got := logger.Component(); got != ComponentSheets {
		t.Fatalf("Component() = %q", got)
	}
	if !strings.Contains(buf.String(), "component=sheets") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
	if strings.Contains(buf.String(), "component=app") {
		t.Fatalf("stale component in output: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := NewNop().WithComponent(ComponentStorage)
	ctx := NewContext(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatalf("expected logger from context")
	}
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatalf("expected fallback logger")
	}
	if OrNop(nil) == nil {
		t.Fatalf("OrNop(nil) returned nil")
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf, ComponentPipeline))

	sl.LogRunCompleted(context.Background(), 2025, 42, 10, 2, 1, 3, 8)
	sl.LogExpenseSkipped(context.Background(), 7, "Poker", "garbage", errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"year=2025", "group_id=42", "kept=8", "expense_id=7", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output: %s", want, out)
		}
	}
}
