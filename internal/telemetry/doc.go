// Package telemetry provides OpenTelemetry instrumentation for pdffill.
//
// # Overview
//
// This package implements distributed tracing and metrics collection using
// the OpenTelemetry Go SDK. Telemetry data is exported over OTLP (gRPC by
// default, http/protobuf optionally) to a collector.
//
// # Usage
//
// Create a telemetry instance:
//
//	cfg := telemetry.NewDefaultConfig()
//	cfg.ApplyEnv()
//	tel, err := telemetry.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(ctx)
//
// Use tracer and meter:
//
//	tracer := tel.Tracer("pdffill.pipeline")
//	ctx, span := tracer.Start(ctx, "fill_pdf_form")
//	defer span.End()
//
//	meter := tel.Meter("pdffill.pipeline")
//	counter, _ := meter.Int64Counter("pdf.processed.total")
//	counter.Add(ctx, 1)
//
// # Configuration
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  service_name: "pdf-form-filler"
//	  metrics:
//	    enabled: true
//	    export_interval: "60s"
//
// The conventional OTEL environment variables (ENABLE_TELEMETRY,
// OTEL_SERVICE_NAME, OTEL_EXPORTER_OTLP_ENDPOINT,
// OTEL_EXPORTER_OTLP_INSECURE) override the file via Config.ApplyEnv.
//
// # Disabled mode
//
// With ENABLE_TELEMETRY=false no exporters are constructed and every span
// and metric operation becomes a no-op. Pipeline behavior is otherwise
// identical; only telemetry is dropped.
//
// # Testing
//
// Use TestTelemetry for tests:
//
//	tt := telemetry.NewTestTelemetry()
//	tracer := tt.Tracer("test")
//	_, span := tracer.Start(ctx, "test-span")
//	span.End()
//	tt.AssertSpanExists(t, "test-span")
package telemetry
