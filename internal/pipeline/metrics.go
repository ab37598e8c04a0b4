// internal/pipeline/metrics.go
package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fyrsmithlabs/pdffill/internal/enrich"
)

const (
	// InstrumentationName is the name used for OTEL instrumentation.
	InstrumentationName = "github.com/fyrsmithlabs/pdffill/internal/pipeline"
)

// Metrics provides OpenTelemetry metrics for the pipeline.
//
// Instruments are registered once at startup and are write-only at call
// sites. All record methods are nil-safe so a degraded meter never affects
// control flow.
type Metrics struct {
	// Counters
	processedTotal        metric.Int64Counter
	enrichedTotal         metric.Int64Counter
	enrichmentFailedTotal metric.Int64Counter

	// Histograms
	processingDuration metric.Float64Histogram
	enrichmentDuration metric.Float64Histogram

	initialized bool
}

// NewMetrics creates a new Metrics instance with the provided meter.
// If meter is nil, uses the global meter provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	m := &Metrics{}
	var err error

	m.processedTotal, err = meter.Int64Counter(
		"pdf.processed.total",
		metric.WithDescription("Total number of PDF fill runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	m.enrichedTotal, err = meter.Int64Counter(
		"contact.enriched.total",
		metric.WithDescription("Total number of contacts enriched successfully"),
		metric.WithUnit("{contact}"),
	)
	if err != nil {
		return nil, err
	}

	m.enrichmentFailedTotal, err = meter.Int64Counter(
		"contact.enrichment.failed.total",
		metric.WithDescription("Total number of contact enrichment failures"),
		metric.WithUnit("{contact}"),
	)
	if err != nil {
		return nil, err
	}

	m.processingDuration, err = meter.Float64Histogram(
		"pdf.processing.duration",
		metric.WithDescription("Duration of one PDF fill run in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return nil, err
	}

	m.enrichmentDuration, err = meter.Float64Histogram(
		"contact.enrichment.duration",
		metric.WithDescription("Duration of one contact enrichment in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, err
	}

	m.initialized = true
	return m, nil
}

// RecordRun records the outcome of one full pipeline run.
func (m *Metrics) RecordRun(ctx context.Context, status string, duration time.Duration) {
	if m == nil || !m.initialized {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("status", status),
	)
	m.processedTotal.Add(ctx, 1, attrs)
	m.processingDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordEnrichment records a successful contact enrichment. Duration is
// measured for every enrichment attempt, success or not.
func (m *Metrics) RecordEnrichment(ctx context.Context, businessName string, duration time.Duration) {
	if m == nil || !m.initialized {
		return
	}
	m.enrichedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("business_name", businessName),
	))
	m.enrichmentDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.Bool("success", true),
	))
}

// RecordEnrichmentFailure records a classified contact enrichment failure.
func (m *Metrics) RecordEnrichmentFailure(ctx context.Context, businessName string, class enrich.Classification, duration time.Duration) {
	if m == nil || !m.initialized {
		return
	}
	m.enrichmentFailedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("error_type", class.String()),
		attribute.String("business_name", businessName),
	))
	m.enrichmentDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.Bool("success", false),
	))
}
