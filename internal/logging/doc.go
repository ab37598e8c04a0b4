// Package logging provides structured logging for pdffill.
//
// The logger wraps zap with context-aware methods that attach trace and
// run correlation fields automatically. Output goes to stderr (console or
// JSON) and optionally to an OpenTelemetry collector via the otelzap
// bridge when a LoggerProvider is supplied.
//
// Create a logger:
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, nil)
//
// Log with context so trace_id/span_id ride along:
//
//	logger.Info(ctx, "filled form field", zap.String("field", name))
//
// Tests use NewTestLogger for in-memory observation.
package logging
