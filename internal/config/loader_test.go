package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSection struct {
	ServiceName string   `koanf:"service_name"`
	Endpoint    string   `koanf:"endpoint"`
	Timeout     Duration `koanf:"timeout"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	loader, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	section := testSection{ServiceName: "default-name", Endpoint: "localhost:4317"}
	require.NoError(t, loader.Unmarshal("telemetry", &section))

	assert.Equal(t, "default-name", section.ServiceName)
	assert.Equal(t, "localhost:4317", section.Endpoint)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
telemetry:
  service_name: from-file
  timeout: 30s
`)

	loader, err := Load(path)
	require.NoError(t, err)

	section := testSection{ServiceName: "default-name", Endpoint: "localhost:4317"}
	require.NoError(t, loader.Unmarshal("telemetry", &section))

	assert.Equal(t, "from-file", section.ServiceName)
	assert.Equal(t, "localhost:4317", section.Endpoint, "keys absent from the file keep defaults")
	assert.Equal(t, 30*time.Second, section.Timeout.Duration())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
telemetry:
  service_name: from-file
`)
	t.Setenv("TELEMETRY_SERVICE_NAME", "from-env")

	loader, err := Load(path)
	require.NoError(t, err)

	var section testSection
	require.NoError(t, loader.Unmarshal("telemetry", &section))
	assert.Equal(t, "from-env", section.ServiceName)
}

func TestLoad_EnvSplitsOnFirstUnderscore(t *testing.T) {
	// TELEMETRY_SERVICE_NAME must become telemetry.service_name, not
	// telemetry.service.name.
	t.Setenv("TELEMETRY_SERVICE_NAME", "split-check")

	loader, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.True(t, loader.Has("telemetry.service_name"))
	assert.False(t, loader.Has("telemetry.service.name"))
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "telemetry: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config file")
}

func TestLoad_FileTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	big := make([]byte, maxConfigFileSize+1)
	for i := range big {
		big[i] = '#'
	}
	require.NoError(t, os.WriteFile(path, big, 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file too large")
}

func TestUnmarshal_UnknownSectionLeavesDefaults(t *testing.T) {
	loader, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	section := testSection{ServiceName: "keep-me"}
	require.NoError(t, loader.Unmarshal("nosuchsection", &section))
	assert.Equal(t, "keep-me", section.ServiceName)
}
