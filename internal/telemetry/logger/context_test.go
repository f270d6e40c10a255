package logger

import (
	"context"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	l, _ := newBufferLogger(t, "info")
	ctx := WithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("FromContext should return the stored logger")
	}
}

func TestFromContext_Default(t *testing.T) {
	if FromContext(context.Background()) != Default() {
		t.Error("FromContext without logger should return Default()")
	}
}

func TestRequestAndActionIDs(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithActionID(ctx, "01HZX")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
	if got := ActionIDFromContext(ctx); got != "01HZX" {
		t.Errorf("ActionIDFromContext() = %q", got)
	}
	if RequestIDFromContext(context.Background()) != "" {
		t.Error("empty context should have no request id")
	}
}

func TestL_AddsIDs(t *testing.T) {
	l, buf := newBufferLogger(t, "info")
	ctx := WithLogger(context.Background(), l)
	ctx = WithRequestID(ctx, "req-7")
	ctx = WithActionID(ctx, "act-9")

	L(ctx).Info("handled")

	entry := decode(t, buf)
	if entry["request_id"] != "req-7" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
	if entry["action_id"] != "act-9" {
		t.Errorf("action_id = %v", entry["action_id"])
	}
}

func TestL_NoIDs(t *testing.T) {
	l, buf := newBufferLogger(t, "info")
	L(WithLogger(context.Background(), l)).Info("plain")

	entry := decode(t, buf)
	if _, ok := entry["request_id"]; ok {
		t.Error("request_id should be absent")
	}
}

func TestSlog_ContextIDs(t *testing.T) {
	l, buf := newBufferLogger(t, "info")
	ctx := WithRequestID(context.Background(), "req-3")

	Slog(l).With("component", "server").InfoContext(ctx, "served")

	entry := decode(t, buf)
	if entry["request_id"] != "req-3" || entry["component"] != "server" {
		t.Errorf("unexpected entry %v", entry)
	}
}
