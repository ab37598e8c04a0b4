package telemetry

import "go.opentelemetry.io/otel/attribute"

// Standard span attribute keys.
//
// Shared constants keep attribute naming uniform across the pipeline and
// prevent typos at call sites.
var (
	// Lookup operation success/failure
	LookupSuccessKey = attribute.Key("lookup.success")

	// Error classification (api_error, json_decode_error, ...)
	ErrorTypeKey = attribute.Key("error.type")

	// File being processed
	FilePathKey = attribute.Key("file.path")

	// Contact enrichment success/failure
	EnrichmentSuccessKey = attribute.Key("enrichment.success")

	// Enrichment failure message
	EnrichmentErrorKey = attribute.Key("enrichment.error")

	// Enrichment skipped (contact already complete)
	EnrichmentSkippedKey = attribute.Key("enrichment.skipped")

	// Contact slot being enriched
	ContactIndexKey        = attribute.Key("contact.index")
	ContactBusinessNameKey = attribute.Key("contact.business_name")

	// Lookup result fields
	ResultCityKey  = attribute.Key("result.city")
	ResultStateKey = attribute.Key("result.state")
)
