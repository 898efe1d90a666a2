package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

// ErrorReporter is the observability side-channel for failures that are
// absorbed rather than propagated. Soft failures (e.g. a transport
// rejection inside a delivery task) are captured here exactly once and
// never surface on the caller's stack.
type ErrorReporter interface {
	CaptureException(ctx context.Context, err error)
}

// SentryReporter reports captured errors to Sentry. It uses the hub
// bound to the context when present, falling back to the global hub.
// Requires sentry.Init to have been called (NewWithSentry does this).
type SentryReporter struct{}

// CaptureException implements ErrorReporter.
func (SentryReporter) CaptureException(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}

// NewLogReporter returns a reporter that writes captured errors to the
// given logger. Use as a fallback when Sentry is not configured.
func NewLogReporter(log *slog.Logger) ErrorReporter {
	if log == nil {
		log = NewNope()
	}
	return &logReporter{log: log}
}

type logReporter struct {
	log *slog.Logger
}

func (r *logReporter) CaptureException(ctx context.Context, err error) {
	if err == nil {
		return
	}
	r.log.ErrorContext(ctx, "captured exception", slog.Any("error", err))
}
