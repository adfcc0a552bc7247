// Package config provides configuration loading and validation for the
// treemap command line tool.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/treemap/pkg/codec"
)

// Sentinel validation errors.
var (
	ErrInvalidCodec       = errors.New("invalid snapshot codec")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidTableStyle  = errors.New("invalid table style")
	ErrInvalidColorMode   = errors.New("invalid color mode")
	ErrInvalidLimit       = errors.New("dump limit must not be negative")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
)

// Accepted enumerations.
var (
	logFormats  = []string{"text", "json"}
	tableStyles = []string{"light", "rounded", "bold", "double", "default"}
	colorModes  = []string{"auto", "always", "never"}
)

// Config holds all configuration for the treemap tool.
type Config struct {
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
	Render    RenderConfig    `mapstructure:"render"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// SnapshotConfig controls how snapshots are written and read.
type SnapshotConfig struct {
	// Codec names the value codec (see codec.Names).
	Codec string `mapstructure:"codec"`
	// Compress wraps new snapshots in an LZ4 frame.
	Compress bool `mapstructure:"compress"`
	// Descending orders maps by descending keys.
	Descending bool `mapstructure:"descending"`
}

// RenderConfig controls terminal output.
type RenderConfig struct {
	Style string `mapstructure:"style"`
	Color string `mapstructure:"color"`
	// Limit caps the rows printed by dump; zero prints everything.
	Limit int `mapstructure:"limit"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry and Prometheus settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	MetricsFile  string  `mapstructure:"metrics_file"`
	Environment  string  `mapstructure:"environment"`
}

// SlogLevel returns the configured level as an slog.Level.
func (lc LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level

	// Validated by LoadConfig.
	_ = level.UnmarshalText([]byte(lc.Level))

	return level
}

// LoadConfig loads configuration from file and environment variables. An
// empty path searches for .treemap.yaml in the working directory and the
// home directory; a missing file is not an error in that case.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".treemap")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME")
	}

	viperCfg.SetEnvPrefix("TREEMAP")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("snapshot.codec", DefaultSnapshotCodec)
	viperCfg.SetDefault("snapshot.compress", DefaultSnapshotCompress)
	viperCfg.SetDefault("snapshot.descending", DefaultSnapshotDescending)

	viperCfg.SetDefault("render.style", DefaultRenderStyle)
	viperCfg.SetDefault("render.color", DefaultRenderColor)
	viperCfg.SetDefault("render.limit", DefaultRenderLimit)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.format", DefaultLoggingFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultTelemetrySampleRatio)
	viperCfg.SetDefault("telemetry.metrics_file", "")
	viperCfg.SetDefault("telemetry.environment", "")
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if !slices.Contains(codec.Names(), config.Snapshot.Codec) {
		return fmt.Errorf("%w: %q", ErrInvalidCodec, config.Snapshot.Codec)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(config.Logging.Level)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if !slices.Contains(logFormats, config.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if !slices.Contains(tableStyles, config.Render.Style) {
		return fmt.Errorf("%w: %q", ErrInvalidTableStyle, config.Render.Style)
	}

	if !slices.Contains(colorModes, config.Render.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColorMode, config.Render.Color)
	}

	if config.Render.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, config.Render.Limit)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}
