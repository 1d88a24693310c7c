package logger

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"log/slog"
)

// capture renders one record through a fresh handler and returns the line.
func capture(t *testing.T, format logFormat, emit func(log *slog.Logger)) string {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:  slog.LevelDebug,
		writer: aw,
		format: format,
	})
	emit(slog.New(handler))
	if err := aw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return strings.TrimSpace(buf.String())
}

func TestHandlerKVKeyOrder(t *testing.T) {
	line := capture(t, formatKV, func(log *slog.Logger) {
		ctx := WithUpdateMeta(WithRID(Background(), "rid-123"), 42, 7, 9)
		LogEvent(ctx, log.With("component", "app"), slog.LevelInfo, "test.event",
			slog.String("status", "ok"),
			slog.String("extra", "unit"),
		)
	})
	if line == "" {
		t.Fatal("expected log line")
	}
	tokens := strings.Split(line, " ")
	expected := []string{"ts=", "level=INFO", "component=app", "event=test.event", "status=ok", "rid=rid-123"}
	if len(tokens) < len(expected) {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestHandlerJSONKeyOrder(t *testing.T) {
	line := capture(t, formatJSON, func(log *slog.Logger) {
		ctx := WithUpdateMeta(WithRID(Background(), "rid-json"), 11, 22, 33)
		LogEvent(ctx, log.With("component", "service.test"), slog.LevelError, "service.failed",
			slog.String("status", "fail"),
			slog.String("err", "boom"),
		)
	})
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	pos := -1
	for _, part := range []string{`{"ts":`, `"level":"ERROR"`, `"component":"service.test"`, `"event":"service.failed"`, `"status":"fail"`, `"rid":"rid-json"`, `"ts_unix_nano"`} {
		idx := strings.Index(line, part)
		if idx == -1 || idx < pos {
			t.Fatalf("%s missing or out of order in %s", part, line)
		}
		pos = idx
	}
}

func TestHandlerCompactsRID(t *testing.T) {
	rawRID := "123:456:789"

	kv := capture(t, formatKV, func(log *slog.Logger) {
		LogEvent(WithRID(Background(), rawRID), log.With("component", "app"), slog.LevelInfo, "rid.test")
	})
	if !strings.Contains(kv, "rid="+CompactRID(rawRID)) {
		t.Fatalf("expected compact rid, got %s", kv)
	}
	if strings.Contains(kv, "rid_full=") {
		t.Fatalf("rid_full belongs to JSON output only, got %s", kv)
	}

	js := capture(t, formatJSON, func(log *slog.Logger) {
		LogEvent(WithRID(Background(), rawRID), log.With("component", "app"), slog.LevelInfo, "rid.test")
	})
	if !strings.Contains(js, `"rid":"`+CompactRID(rawRID)+`"`) {
		t.Fatalf("expected compact rid in JSON, got %s", js)
	}
	if !strings.Contains(js, `"rid_full":"`+rawRID+`"`) {
		t.Fatalf("expected rid_full in JSON, got %s", js)
	}
}

func TestHandlerDurationKeys(t *testing.T) {
	line := capture(t, formatKV, func(log *slog.Logger) {
		LogEvent(Background(), log, slog.LevelInfo, "timing",
			slog.Duration("duration", 1500*time.Microsecond),
			slog.Duration("wait", 2*time.Second),
		)
	})
	if !strings.Contains(line, "duration_ms=2") {
		t.Fatalf("duration should round to whole ms under duration_ms, got %s", line)
	}
	if !strings.Contains(line, "wait_ms=2000") {
		t.Fatalf("bare duration keys get the _ms suffix, got %s", line)
	}
}

func TestHandlerFlattensGroups(t *testing.T) {
	line := capture(t, formatKV, func(log *slog.Logger) {
		LogEvent(Background(), log, slog.LevelInfo, "grouped",
			slog.Group("db", slog.String("host", "localhost"), slog.Int("port", 5432)),
		)
	})
	if !strings.Contains(line, "db.host=localhost") || !strings.Contains(line, "db.port=5432") {
		t.Fatalf("group attrs should flatten to dotted keys, got %s", line)
	}
}

func TestHandlerDropsEmptyFields(t *testing.T) {
	line := capture(t, formatKV, func(log *slog.Logger) {
		LogEvent(Background(), log, slog.LevelInfo, "sparse",
			slog.String("payload", ""),
			slog.String("kept", "x"),
		)
	})
	if strings.Contains(line, "payload=") {
		t.Fatalf("empty strings should be pruned, got %s", line)
	}
	if !strings.Contains(line, "kept=x") {
		t.Fatalf("non-empty field missing, got %s", line)
	}
}
