package config

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/barcodegen/internal/codec"
	"github.com/MeKo-Tech/barcodegen/internal/symbology"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Render: RenderConfig{
			Font:      "Courier New",
			Width:     200,
			Height:    100,
			Symbology: symbology.Default.String(),
			Format:    codec.PNG.String(),
			Spacing:   true,
			Verify:    false,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			TimeoutSec:      30,
			ShutdownTimeout: 10,
			MaxDimension:    4096,
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerMinute: 120,
				RequestsPerHour:   3000,
				MaxRequestsPerDay: 20000,
			},
		},
		Batch: BatchConfig{
			Workers:         4,
			OutputDir:       ".",
			ContinueOnError: false,
			Report:          "text",
		},
	}
}

var (
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validReportFormats = []string{"text", "json", "csv"}
)

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if strings.TrimSpace(c.Render.Font) == "" {
		return fmt.Errorf("invalid render font: must not be empty")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("invalid render size: %dx%d (must be positive)", c.Render.Width, c.Render.Height)
	}
	if _, err := symbology.ParseType(c.Render.Symbology); err != nil {
		return fmt.Errorf("invalid symbology: %s (must be one of: %s)", c.Render.Symbology, strings.Join(symbologyNames(), ", "))
	}
	if _, err := codec.ParseFormat(c.Render.Format); err != nil {
		return fmt.Errorf("invalid image format: %s (must be one of: %s)", c.Render.Format, strings.Join(formatNames(), ", "))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}
	if c.Server.MaxDimension <= 0 {
		return fmt.Errorf("invalid max dimension: %d (must be positive)", c.Server.MaxDimension)
	}
	rl := c.Server.RateLimit
	if rl.RequestsPerMinute < 0 || rl.RequestsPerHour < 0 || rl.MaxRequestsPerDay < 0 {
		return fmt.Errorf("invalid rate limit: limits must not be negative")
	}

	if c.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers: %d (must be positive)", c.Batch.Workers)
	}
	if !contains(validReportFormats, c.Batch.Report) {
		return fmt.Errorf("invalid report format: %s (must be one of: %s)", c.Batch.Report, strings.Join(validReportFormats, ", "))
	}

	return nil
}

// Symbology returns the parsed render symbology.
func (c *Config) Symbology() (symbology.Type, error) {
	return symbology.ParseType(c.Render.Symbology)
}

// Format returns the parsed render output format.
func (c *Config) Format() (codec.Format, error) {
	return codec.ParseFormat(c.Render.Format)
}

func symbologyNames() []string {
	types := symbology.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}

func formatNames() []string {
	formats := codec.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return names
}

// contains checks if a string slice contains a specific item.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
