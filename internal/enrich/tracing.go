// internal/enrich/tracing.go
package enrich

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fyrsmithlabs/pdffill/internal/telemetry"
)

// InstrumentationName is the name used for OTEL instrumentation.
const InstrumentationName = "github.com/fyrsmithlabs/pdffill/internal/enrich"

// tracedLookup wraps a Lookup so every outbound call produces one child
// span with standard attributes. This is the explicit interception point
// around the external capability; nothing else in the pipeline knows how
// the lookup is implemented.
type tracedLookup struct {
	next   Lookup
	tracer trace.Tracer
}

// WithTracing decorates a Lookup with a span per call.
func WithTracing(next Lookup, tracer trace.Tracer) Lookup {
	return &tracedLookup{next: next, tracer: tracer}
}

// Lookup runs the wrapped lookup under a "get_contact_info" span.
func (t *tracedLookup) Lookup(ctx context.Context, businessName string) (*ContactInfo, error) {
	ctx, span := t.tracer.Start(ctx, "get_contact_info")
	defer span.End()

	span.SetAttributes(telemetry.ContactBusinessNameKey.String(businessName))

	info, err := t.next.Lookup(ctx, businessName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(
			telemetry.LookupSuccessKey.Bool(false),
			telemetry.ErrorTypeKey.String(Classify(err).String()),
		)
		return nil, err
	}

	span.SetAttributes(
		telemetry.LookupSuccessKey.Bool(true),
		telemetry.ResultCityKey.String(info.City),
		telemetry.ResultStateKey.String(info.State),
	)
	return info, nil
}
