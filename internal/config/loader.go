// Package config provides configuration loading for pdffill.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Loader holds a merged configuration tree and unmarshals named sections
// into the structs that own them (logging.Config, telemetry.Config, ...).
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (TELEMETRY_SERVICE_NAME, LOGGING_LEVEL, etc.)
//  2. YAML config file (~/.config/pdffill/config.yaml)
//  3. Per-section defaults supplied by the owning package
//
// The fixed-name OpenTelemetry variables (ENABLE_TELEMETRY,
// OTEL_EXPORTER_OTLP_ENDPOINT, ...) do not fit the SECTION_FIELD mapping;
// the telemetry package applies them on top of the unmarshaled section.
type Loader struct {
	k *koanf.Koanf
}

// Load reads the optional YAML config file, then layers environment
// variables over it. A missing file is not an error; the defaults and
// environment carry the configuration.
//
// If configPath is empty the default path ~/.config/pdffill/config.yaml
// is used.
func Load(configPath string) (*Loader, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "pdffill", "config.yaml")
	}

	if _, err := os.Stat(configPath); err == nil {
		// Open once and validate via the file descriptor to avoid a
		// TOCTOU race between stat and read.
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
		}

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Environment variables use underscore separator and are uppercased.
	// Split on the first underscore only: SECTION_FIELD_NAME maps to
	// section.field_name (TELEMETRY_SERVICE_NAME -> telemetry.service_name).
	if err := k.Load(env.Provider("", ".", func(s string) string {
		lower := strings.ToLower(s)
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return &Loader{k: k}, nil
}

// Unmarshal decodes the named section into v. Sections absent from both
// the file and the environment leave v untouched, so callers pass in a
// struct pre-populated with defaults.
func (l *Loader) Unmarshal(section string, v interface{}) error {
	if err := l.k.Unmarshal(section, v); err != nil {
		return fmt.Errorf("failed to unmarshal %q section: %w", section, err)
	}
	return nil
}

// Has reports whether the named key is present in the merged tree.
func (l *Loader) Has(key string) bool {
	return l.k.Exists(key)
}
