// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"log/slog"
	"testing"

	"db-tables/internal/logging"
)

// NewTestLogger returns a debug-level logger that writes to t.Log, so log
// output shows up only for failing tests or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// Context returns a background context carrying NewTestLogger(t).
func Context(t testing.TB) context.Context {
	t.Helper()
	return logging.WithLogger(context.Background(), NewTestLogger(t))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
