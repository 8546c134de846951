package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ECL_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "FIPNUM", cfg.Extract.FIPName)
	assert.Equal(t, 100, cfg.Extract.GuessCeiling)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eclcli.yaml")
	yamlContent := `
server:
  port: 9090
extract:
  fipname: FIPZON
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))
	t.Setenv("ECL_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "FIPZON", cfg.Extract.FIPName)
	// Untouched keys keep the built-in values.
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 100, cfg.Extract.GuessCeiling)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eclcli.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))
	t.Setenv("ECL_CONFIG_FILE", path)
	t.Setenv("ECL_SERVER_PORT", "7070")
	t.Setenv("ECL_EXTRACT_GUESS_CEILING", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 12, cfg.Extract.GuessCeiling)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "ECL_SERVER_PORT", "70000"},
		{"unknown log level", "ECL_LOGGING_LEVEL", "verbose"},
		{"unknown log format", "ECL_LOGGING_FORMAT", "xml"},
		{"fipname without prefix", "ECL_EXTRACT_FIPNAME", "REGIONS"},
		{"fipname too long", "ECL_EXTRACT_FIPNAME", "FIPTOOLONG"},
		{"non-positive ceiling", "ECL_EXTRACT_GUESS_CEILING", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ECL_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadMalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eclcli.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))
	t.Setenv("ECL_CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}
