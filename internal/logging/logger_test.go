package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/pdffill/internal/telemetry"
)

func TestNewLogger(t *testing.T) {
	cfg := NewDefaultConfig()
	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Info(context.Background(), "hello")
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"
	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
}

func TestLogger_Levels(t *testing.T) {
	logger := NewTestLogger()
	ctx := context.Background()

	logger.Trace(ctx, "trace msg")
	logger.Debug(ctx, "debug msg")
	logger.Info(ctx, "info msg")
	logger.Warn(ctx, "warn msg")
	logger.Error(ctx, "error msg")

	logger.AssertLogged(t, TraceLevel, "trace msg")
	logger.AssertLogged(t, zapcore.DebugLevel, "debug msg")
	logger.AssertLogged(t, zapcore.InfoLevel, "info msg")
	logger.AssertLogged(t, zapcore.WarnLevel, "warn msg")
	logger.AssertLogged(t, zapcore.ErrorLevel, "error msg")
}

func TestLogger_Fields(t *testing.T) {
	logger := NewTestLogger()
	logger.Info(context.Background(), "filled pdf", zap.String("path", "out.pdf"))
	logger.AssertField(t, "filled pdf", "path", "out.pdf")
}

func TestLogger_With(t *testing.T) {
	logger := NewTestLogger()
	child := logger.With(zap.String("component", "pipeline"))
	child.Info(context.Background(), "scoped")

	logger.AssertField(t, "scoped", "component", "pipeline")
}

func TestLogger_RunIDFromContext(t *testing.T) {
	logger := NewTestLogger()
	ctx := WithRunID(context.Background(), "run-123")
	logger.Info(ctx, "with run id")
	logger.AssertField(t, "with run id", "run.id", "run-123")
}

func TestLogger_TraceCorrelation(t *testing.T) {
	tel := telemetry.NewTestTelemetry()
	ctx, span := tel.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger := NewTestLogger()
	logger.Info(ctx, "inside span")

	logger.AssertTraceCorrelation(t, "inside span")
	logger.AssertField(t, "inside span", "trace_id", span.SpanContext().TraceID().String())
	logger.AssertField(t, "inside span", "span_id", span.SpanContext().SpanID().String())
}

func TestLogger_NoCorrelationOutsideSpan(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"trace", TraceLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"shout", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := LevelFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Format = "xml"
	require.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.Output.Stderr = false
	cfg.Output.OTEL = false
	require.Error(t, cfg.Validate())
}

func TestFromContext(t *testing.T) {
	logger := NewTestLogger()
	ctx := WithLogger(context.Background(), logger.Logger)

	assert.Same(t, logger.Logger, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()), "missing logger yields a nop logger")
}
