package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/aquarank/internal/scoring"
)

// resetViper resets viper to a clean state for each test
func resetViper() {
	viper.Reset()
}

// chdirTemp moves the test into an empty temporary directory.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() {
		_ = os.Chdir(oldWd)
	})
	return tmpDir
}

func TestLoadConfigDefaults(t *testing.T) {
	resetViper()
	chdirTemp(t)

	config, err := LoadConfig("")
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, filepath.Join("data", "waters.json"), config.Data)
	assert.Equal(t, "nourrisson", config.Profile)
	assert.Equal(t, "console", config.Format)
	assert.Equal(t, "warn", config.LogLevel)
	assert.Equal(t, 3, config.Top)
	assert.Equal(t, 10*time.Second, config.Timeout)
	assert.False(t, config.Quiet)
	assert.False(t, config.Verbose)
	assert.Empty(t, config.Thresholds.Overrides())
}

func TestLoadConfigFromJSON(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)

	configData := map[string]interface{}{
		"data":    "catalogs/*.yaml",
		"profile": "standard",
		"format":  "json",
		"output":  "report.json",
		"top":     5,
		"timeout": "3s",
		"thresholds": map[string]interface{}{
			"sodiumMax": 20,
		},
	}
	jsonData, err := json.MarshalIndent(configData, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".aquarankrc.json"), jsonData, 0644))

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "catalogs/*.yaml", config.Data)
	assert.Equal(t, "standard", config.Profile)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "report.json", config.Output)
	assert.Equal(t, 5, config.Top)
	assert.Equal(t, 3*time.Second, config.Timeout)
	assert.Equal(t, map[scoring.Metric]float64{scoring.MetricSodium: 20}, config.Thresholds.Overrides())
}

func TestLoadConfigFromYAML(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)

	yamlContent := `profile: sensible
format: markdown
thresholds:
  residueMax: 120
  nitratesMax: 15
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".aquarankrc.yaml"), []byte(yamlContent), 0644))

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "sensible", config.Profile)
	assert.Equal(t, "markdown", config.Format)
	assert.Equal(t, 120.0, config.Thresholds.ResidueMax)
	assert.Equal(t, 15.0, config.Thresholds.NitratesMax)
	assert.Zero(t, config.Thresholds.SodiumMax)
}

func TestLoadConfigEnvironment(t *testing.T) {
	resetViper()
	chdirTemp(t)

	t.Setenv("AQUARANK_PROFILE", "standard")
	t.Setenv("AQUARANK_THRESHOLDS_NITRATESMAX", "25")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "standard", config.Profile)
	assert.Equal(t, 25.0, config.Thresholds.NitratesMax)
}

func TestLoadConfigDataOverride(t *testing.T) {
	resetViper()
	chdirTemp(t)

	config, err := LoadConfig("https://example.org/waters.json")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/waters.json", config.Data)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".aquarankrc.json"), []byte("{ nope"), 0644))

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() Config {
		return Config{
			Data:     "data/waters.json",
			Profile:  "standard",
			Format:   "console",
			LogLevel: "warn",
			Top:      3,
			Timeout:  time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"uppercase log level", func(c *Config) { c.LogLevel = "DEBUG" }, ""},
		{"bad format", func(c *Config) { c.Format = "xml" }, "invalid format"},
		{"unknown profile", func(c *Config) { c.Profile = "athlete" }, "unknown profile"},
		{"negative override", func(c *Config) { c.Thresholds.SodiumMax = -1 }, "thresholds.sodiumMax"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"top zero", func(c *Config) { c.Top = 0 }, "top must be at least 1"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout must be positive"},
		{"no data", func(c *Config) { c.Data = "" }, "no catalog source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := validateConfig(&cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", ".aquarankrc.json")

	cfg := &Config{Data: "data/waters.json", Profile: "sensible", Format: "console", Top: 3}
	require.NoError(t, SaveConfig(cfg, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "sensible", got["profile"])
	assert.Equal(t, "data/waters.json", got["data"])
}
