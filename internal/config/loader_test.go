package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// chdir switches into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(originalWd) })
}

// TestNewLoader tests loader creation.
func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if loader.GetViper() != viper.GetViper() {
		t.Error("NewLoader() should use the global viper instance")
	}
}

// TestLoadWithNoConfigFile tests loading with no config file present.
func TestLoadWithNoConfigFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := NewLoaderWithViper(viper.New()).Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LogLevel != infoLevel {
		t.Errorf("Expected default log level '%s', got %s", infoLevel, cfg.LogLevel)
	}
	if cfg.Render.Width != 200 {
		t.Errorf("Expected default width 200, got %d", cfg.Render.Width)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
}

// TestLoadWithValidYAMLFile tests loading from a valid YAML file.
func TestLoadWithValidYAMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "barcodegen.yaml")

	yamlContent := `
log_level: debug
render:
  font: Arial
  width: 640
  height: 320
  symbology: qr
  format: jpeg
  spacing: false
fonts:
  dirs:
    - /usr/share/fonts
server:
  port: 9090
  rate_limit:
    enabled: true
    requests_per_minute: 10
batch:
  workers: 8
  report: json
`
	if err := os.WriteFile(configFile, []byte(yamlContent), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := NewLoaderWithViper(viper.New()).LoadWithFile(configFile)
	if err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.Render.Font != "Arial" || cfg.Render.Width != 640 || cfg.Render.Height != 320 {
		t.Errorf("Unexpected render config: %+v", cfg.Render)
	}
	if cfg.Render.Symbology != "qr" || cfg.Render.Format != "jpeg" || cfg.Render.Spacing {
		t.Errorf("Unexpected render config: %+v", cfg.Render)
	}
	if len(cfg.Fonts.Dirs) != 1 || cfg.Fonts.Dirs[0] != "/usr/share/fonts" {
		t.Errorf("Unexpected font dirs: %v", cfg.Fonts.Dirs)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if !cfg.Server.RateLimit.Enabled || cfg.Server.RateLimit.RequestsPerMinute != 10 {
		t.Errorf("Unexpected rate limit config: %+v", cfg.Server.RateLimit)
	}
	// Unset values keep their defaults
	if cfg.Server.RateLimit.RequestsPerHour != 3000 {
		t.Errorf("Expected default requests_per_hour 3000, got %d", cfg.Server.RateLimit.RequestsPerHour)
	}
	if cfg.Batch.Workers != 8 || cfg.Batch.Report != "json" {
		t.Errorf("Unexpected batch config: %+v", cfg.Batch)
	}
}

// TestLoadFromSearchPath tests discovery of barcodegen.yaml in the working directory.
func TestLoadFromSearchPath(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, "barcodegen.yaml"), []byte("render:\n  width: 321\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewLoaderWithViper(viper.New())
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Render.Width != 321 {
		t.Errorf("Expected width 321, got %d", cfg.Render.Width)
	}
	if !strings.HasSuffix(loader.GetConfigFileUsed(), "barcodegen.yaml") {
		t.Errorf("Unexpected config file used: %s", loader.GetConfigFileUsed())
	}
}

// TestLoadWithInvalidValues tests that validation errors are reported.
func TestLoadWithInvalidValues(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "barcodegen.yaml")
	if err := os.WriteFile(configFile, []byte("render:\n  symbology: maxicode\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := NewLoaderWithViper(viper.New()).LoadWithFile(configFile)
	if err == nil {
		t.Fatal("LoadWithFile() expected validation error")
	}
	if !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Unexpected error: %v", err)
	}

	cfg, err := NewLoaderWithViper(viper.New()).LoadWithFileWithoutValidation(configFile)
	if err != nil {
		t.Fatalf("LoadWithFileWithoutValidation() unexpected error: %v", err)
	}
	if cfg.Render.Symbology != "maxicode" {
		t.Errorf("Expected raw symbology, got %s", cfg.Render.Symbology)
	}
}

// TestLoadWithMissingFile tests error on a missing explicit config file.
func TestLoadWithMissingFile(t *testing.T) {
	_, err := NewLoaderWithViper(viper.New()).LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected missing file error, got %v", err)
	}
}

// TestLoadWithMalformedFile tests error on unparsable YAML.
func TestLoadWithMalformedFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "barcodegen.yaml")
	if err := os.WriteFile(configFile, []byte("render: [unclosed\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := NewLoaderWithViper(viper.New()).LoadWithFile(configFile)
	if err == nil || !strings.Contains(err.Error(), "error reading config file") {
		t.Errorf("Expected read error, got %v", err)
	}
}

// TestEnvironmentOverrides tests BARCODEGEN_ environment variables.
func TestEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("BARCODEGEN_LOG_LEVEL", "warn")
	t.Setenv("BARCODEGEN_RENDER_WIDTH", "512")
	t.Setenv("BARCODEGEN_SERVER_PORT", "7070")
	t.Setenv("BARCODEGEN_BATCH_CONTINUE_ON_ERROR", "true")

	cfg, err := NewLoaderWithViper(viper.New()).Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("Expected log level 'warn', got %s", cfg.LogLevel)
	}
	if cfg.Render.Width != 512 {
		t.Errorf("Expected width 512, got %d", cfg.Render.Width)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Expected port 7070, got %d", cfg.Server.Port)
	}
	if !cfg.Batch.ContinueOnError {
		t.Error("Expected continue_on_error from environment")
	}
}

// TestLoaderAccessors tests Get/Set helpers.
func TestLoaderAccessors(t *testing.T) {
	loader := NewLoaderWithViper(viper.New())
	loader.Set("render.font", "Go Bold")

	if got := loader.GetString("render.font"); got != "Go Bold" {
		t.Errorf("GetString() = %s, want Go Bold", got)
	}
	if got := loader.Get("render.font"); got != "Go Bold" {
		t.Errorf("Get() = %v, want Go Bold", got)
	}
	if _, ok := loader.GetResolvedConfig()["render"]; !ok {
		t.Error("GetResolvedConfig() should contain the render section")
	}
}

// TestGetConfigSearchPaths tests search path ordering.
func TestGetConfigSearchPaths(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	paths := GetConfigSearchPaths()
	if paths[0] != "." {
		t.Errorf("Expected first search path '.', got %s", paths[0])
	}
	if paths[1] != filepath.Join(xdg, "barcodegen") {
		t.Errorf("Expected XDG path second, got %s", paths[1])
	}
	if paths[len(paths)-1] != "/etc/barcodegen" {
		t.Errorf("Expected /etc/barcodegen last, got %s", paths[len(paths)-1])
	}
}
