package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestLookupAndFromContext(t *testing.T) {
	if _, ok := Lookup(context.Background()); ok {
		t.Fatalf("expected no logger in empty context")
	}

	l := zaptest.NewLogger(t)
	ctx := WithLogger(context.Background(), l)

	got, ok := Lookup(ctx)
	if !ok || got != l {
		t.Fatalf("Lookup did not return attached logger")
	}
	if FromContext(ctx) != l || L(ctx) != l {
		t.Fatalf("FromContext did not return attached logger")
	}
}

func TestWithFieldsReplacesLogger(t *testing.T) {
	l := zaptest.NewLogger(t)
	ctx := WithLogger(context.Background(), l)

	ctx = WithFields(ctx, zap.String("request_id", "abc"))
	got, ok := Lookup(ctx)
	if !ok || got == l {
		t.Fatalf("expected a derived logger in context")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	logger, err := NewLogger(Options{Env: "production", Level: "warn"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if logger.Core().Enabled(zap.InfoLevel) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zap.ErrorLevel) {
		t.Fatalf("error should be enabled at warn level")
	}

	dev, err := NewLogger(Options{Env: "dev", Level: "debug"})
	if err != nil {
		t.Fatalf("NewLogger dev: %v", err)
	}
	if !dev.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("debug should be enabled in dev at debug level")
	}
}
