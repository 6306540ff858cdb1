package observability

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestQueryID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := QueryID(ctx); got != "" {
		t.Errorf("QueryID(empty ctx) = %q, want empty", got)
	}
	ctx = WithQueryID(ctx, "abc-123")
	if got := QueryID(ctx); got != "abc-123" {
		t.Errorf("QueryID() = %q, want abc-123", got)
	}
}

func TestLoggerFrom(t *testing.T) {
	if LoggerFrom(context.Background()) == nil {
		t.Fatal("LoggerFrom(empty ctx) returned nil")
	}

	core, logs := observer.New(zap.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core))
	LoggerFrom(ctx).Info("hello")
	if logs.Len() != 1 {
		t.Errorf("logged %d entries, want 1", logs.Len())
	}
}
