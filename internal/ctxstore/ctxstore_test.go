package ctxstore

import (
	"context"
	"testing"
)

func TestWithFrom(t *testing.T) {
	ctx := With(context.Background(), TraceIDKey, "trace-1")

	if got := TraceID(ctx); got != "trace-1" {
		t.Errorf("expected trace-1, got %q", got)
	}
	if _, ok := From[int](ctx, TraceIDKey); ok {
		t.Error("expected type mismatch to miss")
	}
	if got := FromOr(ctx, UserKey, "none"); got != "none" {
		t.Errorf("expected default, got %q", got)
	}
	if got := TraceID(context.Background()); got != "" {
		t.Errorf("expected empty trace id, got %q", got)
	}
}

func TestMustFromPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustFrom[string](context.Background(), UserKey)
}
