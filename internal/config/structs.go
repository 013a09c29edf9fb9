//nolint:lll
package config

// Config represents the complete configuration for barcodegen.
// It includes settings for all commands (generate, batch, serve) and
// supports loading from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Render defaults
	Render RenderConfig `mapstructure:"render" yaml:"render" json:"render"`

	// Additional font sources
	Fonts FontsConfig `mapstructure:"fonts" yaml:"fonts" json:"fonts"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// RenderConfig contains the defaults applied to every render.
type RenderConfig struct {
	Font      string `mapstructure:"font" yaml:"font" json:"font"`
	Width     int    `mapstructure:"width" yaml:"width" json:"width"`
	Height    int    `mapstructure:"height" yaml:"height" json:"height"`
	Symbology string `mapstructure:"symbology" yaml:"symbology" json:"symbology"`
	Format    string `mapstructure:"format" yaml:"format" json:"format"`
	Spacing   bool   `mapstructure:"spacing" yaml:"spacing" json:"spacing"`
	Verify    bool   `mapstructure:"verify" yaml:"verify" json:"verify"`
}

// FontsConfig lists directories scanned for TrueType/OpenType fonts.
type FontsConfig struct {
	Dirs []string `mapstructure:"dirs" yaml:"dirs" json:"dirs"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string          `mapstructure:"host" yaml:"host" json:"host"`
	Port            int             `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string          `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	TimeoutSec      int             `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int             `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	MaxDimension    int             `mapstructure:"max_dimension" yaml:"max_dimension" json:"max_dimension"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig contains per-client request limits. Zero disables a limit.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute" yaml:"requests_per_minute" json:"requests_per_minute"`
	RequestsPerHour   int  `mapstructure:"requests_per_hour" yaml:"requests_per_hour" json:"requests_per_hour"`
	MaxRequestsPerDay int  `mapstructure:"max_requests_per_day" yaml:"max_requests_per_day" json:"max_requests_per_day"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers         int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	OutputDir       string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	ContinueOnError bool   `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
	Report          string `mapstructure:"report" yaml:"report" json:"report"`
}
