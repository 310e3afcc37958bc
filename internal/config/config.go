package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dotcommander/aquarank/internal/profiles"
	"github.com/dotcommander/aquarank/internal/scoring"
)

// Formats lists the supported report formats.
var Formats = []string{"console", "json", "markdown"}

// LogLevels lists the accepted log levels.
var LogLevels = []string{"debug", "info", "warn", "error"}

// configPaths are tried in order in each searched directory.
var configPaths = []string{".aquarankrc.json", ".aquarankrc.yaml", ".aquarankrc.yml"}

// Config represents the aquarank configuration
type Config struct {
	Data       string           `mapstructure:"data" json:"data"`
	Profile    string           `mapstructure:"profile" json:"profile"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds" json:"thresholds"`
	Format     string           `mapstructure:"format" json:"format"`
	Output     string           `mapstructure:"output" json:"output,omitempty"`
	Quiet      bool             `mapstructure:"quiet" json:"quiet"`
	Verbose    bool             `mapstructure:"verbose" json:"verbose"`
	LogLevel   string           `mapstructure:"logLevel" json:"logLevel"`
	Top        int              `mapstructure:"top" json:"top"`
	Timeout    time.Duration    `mapstructure:"timeout" json:"timeout"`
}

// ThresholdsConfig holds numeric overrides applied on top of the profile.
// A zero value means "keep the profile's limit".
type ThresholdsConfig struct {
	ResidueMax  float64 `mapstructure:"residueMax" json:"residueMax,omitempty"`
	NitratesMax float64 `mapstructure:"nitratesMax" json:"nitratesMax,omitempty"`
	SodiumMax   float64 `mapstructure:"sodiumMax" json:"sodiumMax,omitempty"`
}

// Overrides returns the non-zero overrides keyed by metric.
func (t ThresholdsConfig) Overrides() map[scoring.Metric]float64 {
	out := make(map[scoring.Metric]float64)
	if t.ResidueMax != 0 {
		out[scoring.MetricResidue] = t.ResidueMax
	}
	if t.NitratesMax != 0 {
		out[scoring.MetricNitrates] = t.NitratesMax
	}
	if t.SodiumMax != 0 {
		out[scoring.MetricSodium] = t.SodiumMax
	}
	return out
}

// LoadConfig loads configuration from defaults, the first config file found,
// AQUARANK_* environment variables and bound flags.
func LoadConfig(dataPath string) (*Config, error) {
	viper.SetDefault("data", filepath.Join("data", "waters.json"))
	viper.SetDefault("profile", profiles.Default)
	viper.SetDefault("thresholds.residueMax", 0.0)
	viper.SetDefault("thresholds.nitratesMax", 0.0)
	viper.SetDefault("thresholds.sodiumMax", 0.0)
	viper.SetDefault("format", "console")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("logLevel", "warn")
	viper.SetDefault("top", scoring.TopN)
	viper.SetDefault("timeout", 10*time.Second)

	if err := ReadConfigFile(); err != nil {
		return nil, err
	}

	viper.SetEnvPrefix("AQUARANK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if dataPath != "" {
		config.Data = dataPath
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// ReadConfigFile reads the nearest config file, searching the working
// directory and its parents up to the project root. A missing file is not
// an error.
func ReadConfigFile() error {
	path := findConfigFile(".")
	if path == "" {
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if !slices.Contains(Formats, config.Format) {
		return fmt.Errorf("invalid format: %s. Must be one of %s", config.Format, strings.Join(Formats, ", "))
	}

	if _, ok := profiles.Lookup(config.Profile); !ok {
		return fmt.Errorf("unknown profile: %s. Must be one of %s", config.Profile, strings.Join(profiles.IDs(), ", "))
	}

	for metric, v := range map[string]float64{
		"residueMax":  config.Thresholds.ResidueMax,
		"nitratesMax": config.Thresholds.NitratesMax,
		"sodiumMax":   config.Thresholds.SodiumMax,
	} {
		if v < 0 {
			return fmt.Errorf("thresholds.%s must be positive, got %v", metric, v)
		}
	}

	if !slices.Contains(LogLevels, strings.ToLower(config.LogLevel)) {
		return fmt.Errorf("invalid log level: %s. Must be one of %s", config.LogLevel, strings.Join(LogLevels, ", "))
	}

	if config.Top < 1 {
		return fmt.Errorf("top must be at least 1")
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if config.Data == "" {
		return fmt.Errorf("no catalog source configured")
	}

	return nil
}

// SaveConfig saves the configuration as JSON, creating the directory.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
