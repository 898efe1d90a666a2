// Package logger provides structured logging and the error-reporting
// side-channel for the delivery pipeline.
//
// Logging builds on log/slog: a JSON factory, context-based attribute
// extraction via a handler decorator, and optional Sentry fan-out. The
// ErrorReporter interface is the sink for soft failures — errors that
// delivery deliberately absorbs instead of propagating (see the
// delivery package); SentryReporter captures them as Sentry events and
// NewLogReporter falls back to plain log output.
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//	})
//
//	task, _ := delivery.NewTask(store, transport,
//		delivery.WithLogger(log),
//		delivery.WithReporter(logger.SentryReporter{}),
//	)
//
// If the Sentry DSN is empty, both the handler and the reporter degrade
// gracefully to stdout-only logging.
package logger
