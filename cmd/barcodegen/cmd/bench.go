package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MeKo-Tech/barcodegen"
	"github.com/MeKo-Tech/barcodegen/internal/benchmark"
	"github.com/spf13/cobra"
)

// benchCmd measures render time per symbology and format.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure render throughput per symbology and format",
	Long: `Render a sample value for every selected symbology and output format
and report the average time and allocations per image.

Examples:
  barcodegen bench
  barcodegen bench -t code128,qr -f png,pdf --iterations 20
  barcodegen bench --csv results.csv`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().Int("iterations", 10, "renders per case")
	benchCmd.Flags().StringSliceP("type", "t", nil, "symbologies to measure (default all)")
	benchCmd.Flags().StringSliceP("format", "f", []string{"png"}, "output formats to measure")
	benchCmd.Flags().Int("width", 0, "image width in pixels")
	benchCmd.Flags().Int("height", 0, "image height in pixels")
	benchCmd.Flags().String("font", "", "caption font family")
	benchCmd.Flags().Bool("verify", false, "decode every rendered image")
	benchCmd.Flags().String("csv", "", "also write results as CSV to this file")

	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, _ []string) error {
	cfg := GetConfig()
	flags := cmd.Flags()

	iterations, _ := flags.GetInt("iterations")
	if iterations <= 0 {
		return fmt.Errorf("invalid iterations: %d (must be positive)", iterations)
	}

	types := barcodegen.Symbologies()
	if names, _ := flags.GetStringSlice("type"); len(names) > 0 {
		types = types[:0:0]
		for _, name := range names {
			t, err := barcodegen.ParseSymbology(name)
			if err != nil {
				return err
			}
			types = append(types, t)
		}
	}

	formatNames, _ := flags.GetStringSlice("format")
	formats := make([]barcodegen.Format, 0, len(formatNames))
	for _, name := range formatNames {
		f, err := barcodegen.ParseFormat(name)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	width := cfg.Render.Width
	if flags.Changed("width") {
		width, _ = flags.GetInt("width")
	}
	height := cfg.Render.Height
	if flags.Changed("height") {
		height, _ = flags.GetInt("height")
	}

	registry, err := fontRegistry(cfg.Fonts.Dirs)
	if err != nil {
		return err
	}
	suite := benchmark.NewSuite(iterations)
	suite.Fonts = registry
	suite.Font = cfg.Render.Font
	if flags.Changed("font") {
		suite.Font, _ = flags.GetString("font")
	}
	suite.Verify, _ = flags.GetBool("verify")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, runErr := suite.Run(ctx, benchmark.Cases(types, formats, width, height))
	if err := benchmark.WriteText(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	if path, _ := flags.GetString("csv"); path != "" {
		f, err := os.Create(path) //nolint:gosec // G304: output path is user input
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := benchmark.WriteCSV(f, results); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return runErr
}
