package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func TestNew_Disabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, tel)

	assert.False(t, tel.IsEnabled())
	assert.NotNil(t, tel.Tracer("test"), "disabled telemetry still hands out tracers")
	assert.NotNil(t, tel.Meter("test"))

	// Spans against a disabled instance are no-ops but must not panic.
	_, span := tel.Tracer("test").Start(context.Background(), "noop")
	span.SetAttributes(attribute.String("k", "v"))
	span.End()

	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Endpoint = ""

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid telemetry config")
}

func TestTelemetry_NilSafe(t *testing.T) {
	var tel *Telemetry

	assert.NotNil(t, tel.Tracer("test"))
	assert.NotNil(t, tel.Meter("test"))
	assert.Nil(t, tel.LoggerProvider())
	assert.False(t, tel.IsEnabled())
	assert.NoError(t, tel.Shutdown(context.Background()))
	assert.NoError(t, tel.ForceFlush(context.Background()))

	health := tel.Health()
	assert.False(t, health.Healthy)
	assert.True(t, health.Degraded)
}

func TestShutdown_MarksUnhealthy(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, tel.Health().Healthy)

	require.NoError(t, tel.Shutdown(context.Background()))
	assert.False(t, tel.Health().Healthy)

	// Shutdown twice is fine.
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestTestTelemetry_SpanHierarchy(t *testing.T) {
	tel := NewTestTelemetry()
	tracer := tel.Tracer("test")

	ctx, parent := tracer.Start(context.Background(), "parent")
	_, child := tracer.Start(ctx, "child")
	child.End()
	parent.End()

	tel.AssertSpanExists(t, "parent")
	tel.AssertSpanExists(t, "child")

	p := tel.SpanByName("parent")
	children := tel.ChildSpans(p)
	require.Len(t, children, 1)
	assert.Equal(t, "child", children[0].Name())
	assert.Equal(t, p.SpanContext().TraceID(), children[0].SpanContext().TraceID())
}

func TestTestTelemetry_Metrics(t *testing.T) {
	tel := NewTestTelemetry()
	meter := tel.Meter("test")

	counter, err := meter.Int64Counter("widgets.total")
	require.NoError(t, err)
	counter.Add(context.Background(), 2, metric.WithAttributes(attribute.String("status", "success")))
	counter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("status", "failure")))

	hist, err := meter.Float64Histogram("widgets.duration")
	require.NoError(t, err)
	hist.Record(context.Background(), 0.25)

	rm, err := tel.MetricReader.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), CounterValue(rm, "widgets.total"))
	assert.Equal(t, int64(2), CounterValue(rm, "widgets.total", attribute.String("status", "success")))
	assert.Equal(t, int64(1), CounterValue(rm, "widgets.total", attribute.String("status", "failure")))
	assert.Equal(t, int64(0), CounterValue(rm, "widgets.total", attribute.String("status", "nope")))
	assert.Equal(t, uint64(1), HistogramCount(rm, "widgets.duration"))
}
