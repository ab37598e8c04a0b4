// Package telemetry provides OpenTelemetry instrumentation for pdffill.
package telemetry

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fyrsmithlabs/pdffill/internal/config"
)

// Config holds telemetry configuration.
type Config struct {
	Enabled        bool           `koanf:"enabled"`
	Endpoint       string         `koanf:"endpoint"`
	Protocol       string         `koanf:"protocol"` // "grpc" (default) or "http/protobuf"
	ServiceName    string         `koanf:"service_name"`
	ServiceVersion string         `koanf:"service_version"`
	Insecure       bool           `koanf:"insecure"` // Use insecure connection (no TLS)
	Sampling       SamplingConfig `koanf:"sampling"`
	Metrics        MetricsConfig  `koanf:"metrics"`
	Shutdown       ShutdownConfig `koanf:"shutdown"`
}

// SamplingConfig controls trace sampling behavior.
type SamplingConfig struct {
	Rate float64 `koanf:"rate"` // 0.0-1.0, default 1.0
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	Enabled        bool            `koanf:"enabled"`
	ExportInterval config.Duration `koanf:"export_interval"`
}

// ShutdownConfig controls graceful shutdown behavior.
type ShutdownConfig struct {
	Timeout config.Duration `koanf:"timeout"`
}

// NewDefaultConfig returns telemetry defaults.
// Telemetry is enabled by default; disable with ENABLE_TELEMETRY=false
// when no OTEL collector is running.
func NewDefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		Endpoint:       "localhost:4317",
		Protocol:       "grpc",
		ServiceName:    "pdf-form-filler",
		ServiceVersion: "1.0.0",
		Insecure:       false,
		Sampling: SamplingConfig{
			Rate: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled:        true,
			ExportInterval: config.Duration(60 * time.Second),
		},
		Shutdown: ShutdownConfig{
			Timeout: config.Duration(5 * time.Second),
		},
	}
}

// ApplyEnv layers the fixed-name OpenTelemetry environment variables over
// the config. These names are set by convention and do not follow the
// SECTION_FIELD mapping of the config loader, so they are applied last and
// win over both file and defaults.
//
//	ENABLE_TELEMETRY             enable/disable all telemetry (default true)
//	OTEL_SERVICE_NAME            service name (default pdf-form-filler)
//	OTEL_SERVICE_VERSION         service version (default 1.0.0)
//	OTEL_EXPORTER_OTLP_ENDPOINT  collector endpoint, URL or host:port
//	OTEL_EXPORTER_OTLP_INSECURE  disable TLS (default false)
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv("ENABLE_TELEMETRY"); ok {
		c.Enabled = truthy(v)
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("OTEL_SERVICE_VERSION"); v != "" {
		c.ServiceVersion = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Endpoint = stripScheme(v)
	}
	if v, ok := os.LookupEnv("OTEL_EXPORTER_OTLP_INSECURE"); ok {
		c.Insecure = truthy(v)
	}
}

// truthy parses env-style booleans leniently: empty, "0", "false", "no"
// and "off" are false, everything else is true.
func truthy(value string) bool {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

// Validate checks configuration for errors.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil // No validation needed if disabled
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when telemetry is enabled")
	}

	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required when telemetry is enabled")
	}

	if c.Protocol != "" && c.Protocol != "grpc" && c.Protocol != "http/protobuf" {
		return fmt.Errorf("protocol must be 'grpc' or 'http/protobuf', got %q", c.Protocol)
	}

	if c.Sampling.Rate < 0 || c.Sampling.Rate > 1 {
		return fmt.Errorf("sampling.rate must be between 0 and 1, got %f", c.Sampling.Rate)
	}

	if c.Metrics.Enabled && c.Metrics.ExportInterval.Duration() <= 0 {
		return fmt.Errorf("metrics.export_interval must be positive when metrics enabled")
	}

	if c.Shutdown.Timeout.Duration() <= 0 {
		return fmt.Errorf("shutdown.timeout must be positive")
	}

	return nil
}

// stripScheme removes http:// or https:// from an endpoint URL.
// The OTEL exporters expect just host:port, not full URLs.
func stripScheme(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return endpoint
}
