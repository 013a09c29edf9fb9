package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/MeKo-Tech/barcodegen/internal/config"
	"github.com/MeKo-Tech/barcodegen/internal/fonts"
	"github.com/MeKo-Tech/barcodegen/internal/version"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
	// Dotenv file loaded before the configuration.
	envFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "barcodegen",
	Short: "Barcode image generator with auto-fit captions",
	Long: `barcodegen renders barcodes into images of an exact pixel size with an
optional human-readable caption fitted underneath.

This tool provides:
- Linear (Code128, Code39, Code93, Codabar, EAN, ITF, 2 of 5) and matrix
  (QR, DataMatrix, Aztec, PDF417) symbologies
- Captions scaled and letter-spaced to fill the reserved band
- PNG, JPEG, BMP, GIF, TIFF and PDF output
- Batch rendering from text, CSV or YAML manifests
- An HTTP and WebSocket server

Examples:
  barcodegen generate 12345670 --output label.png
  barcodegen generate "https://example.com" --type qr --width 300 --height 340 --base64
  barcodegen batch items.csv --output-dir out --workers 8
  barcodegen serve --port 8080`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _ := cmd.PersistentFlags().GetBool("version")
		if v {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		}
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
// This allows tests to execute commands without calling os.Exit().
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $XDG_CONFIG_HOME/barcodegen, $HOME, /etc/barcodegen)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the configuration")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSlice("font-dir", nil, "additional directories with TrueType/OpenType fonts")
	rootCmd.PersistentFlags().Bool("version", false, "print version information and exit")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(envFile); err != nil {
			return err
		}
		if err := initConfig(); err != nil {
			return err
		}
		setupLogging(globalConfig)
		return nil
	}
}

// loadEnvFile loads a dotenv file without overriding variables already set.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	slog.Debug("Loaded env file", "path", path)
	return nil
}

// initConfig reads in config file and ENV variables if set. Every call starts
// from a fresh viper instance with the persistent flags bound.
func initConfig() error {
	v := viper.New()
	flags := rootCmd.PersistentFlags()
	_ = v.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = v.BindPFlag("fonts.dirs", flags.Lookup("font-dir"))
	configLoader = config.NewLoaderWithViper(v)

	var err error
	if cfgFile != "" {
		globalConfig, err = configLoader.LoadWithFile(cfgFile)
	} else {
		globalConfig, err = configLoader.Load()
	}
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	return nil
}

// setupLogging installs a JSON slog handler on stderr.
func setupLogging(cfg *config.Config) {
	var logLevel slog.Level
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			logLevel = slog.LevelDebug
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		default:
			logLevel = slog.LevelInfo
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// GetConfig returns the global configuration.
func GetConfig() *config.Config {
	if globalConfig == nil {
		if err := initConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			cfg := config.DefaultConfig()
			return &cfg
		}
	}
	return globalConfig
}

// GetConfigLoader returns the global configuration loader.
func GetConfigLoader() *config.Loader {
	if configLoader == nil {
		configLoader = config.NewLoader()
	}
	return configLoader
}

// fontRegistry returns the shared registry, or a private one extended with
// the fonts found in dirs.
func fontRegistry(dirs []string) (*fonts.Registry, error) {
	if len(dirs) == 0 {
		return fonts.Default(), nil
	}

	registry := fonts.NewRegistry()
	for _, dir := range dirs {
		names, err := registry.LoadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load fonts from %s: %w", dir, err)
		}
		slog.Debug("Loaded fonts", "dir", dir, "families", names)
	}
	return registry, nil
}
