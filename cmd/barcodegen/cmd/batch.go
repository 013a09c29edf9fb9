package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MeKo-Tech/barcodegen/internal/batch"
	"github.com/MeKo-Tech/barcodegen/internal/codec"
	"github.com/MeKo-Tech/barcodegen/internal/symbology"
	"github.com/spf13/cobra"
)

// batchCmd renders every entry of a manifest.
var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Render barcodes for every entry of a manifest",
	Long: `Render one barcode per manifest entry into --output-dir.

FILE is read according to its extension:
  .csv         header row with a "value" column and optional caption, name
               and symbology columns
  .yaml, .yml  a list of items or a mapping with an "items" key
  other        one value per line, optionally "value<TAB>caption"; lines
               starting with # are ignored

Examples:
  barcodegen batch values.txt --output-dir labels
  barcodegen batch items.csv --workers 8 --format jpeg --report json
  barcodegen batch items.yaml --continue-on-error --report-file report.csv --report csv`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("output-dir", ".", "directory for rendered images")
	batchCmd.Flags().IntP("workers", "w", 4, "number of parallel workers (0 = number of CPUs)")
	batchCmd.Flags().StringP("format", "f", "", "output format (png, jpeg, bmp, gif, tiff, pdf)")
	batchCmd.Flags().String("report", "text", "report format (text, json, csv)")
	batchCmd.Flags().String("report-file", "", "write the report to a file instead of stdout")
	batchCmd.Flags().Bool("continue-on-error", false, "keep rendering after an item fails")
	batchCmd.Flags().BoolP("quiet", "q", false, "suppress the progress bar")

	batchCmd.Flags().String("font", "", "caption font family")
	batchCmd.Flags().Int("width", 0, "image width in pixels")
	batchCmd.Flags().Int("height", 0, "image height in pixels")
	batchCmd.Flags().StringP("type", "t", "", "default symbology for items without one")
	batchCmd.Flags().Bool("spacing", true, "spread caption characters across the band")
	batchCmd.Flags().Bool("verify", false, "decode every rendered barcode")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	flags := cmd.Flags()

	bc := batch.DefaultConfig()
	bc.Font = cfg.Render.Font
	bc.Width = cfg.Render.Width
	bc.Height = cfg.Render.Height
	bc.Spacing = cfg.Render.Spacing
	bc.Verify = cfg.Render.Verify
	bc.OutputDir = cfg.Batch.OutputDir
	bc.Workers = cfg.Batch.Workers
	bc.ContinueOnError = cfg.Batch.ContinueOnError

	if flags.Changed("font") {
		bc.Font, _ = flags.GetString("font")
	}
	if flags.Changed("width") {
		bc.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		bc.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("spacing") {
		bc.Spacing, _ = flags.GetBool("spacing")
	}
	if flags.Changed("verify") {
		bc.Verify, _ = flags.GetBool("verify")
	}
	if flags.Changed("output-dir") {
		bc.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("workers") {
		bc.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("continue-on-error") {
		bc.ContinueOnError, _ = flags.GetBool("continue-on-error")
	}

	typeName := cfg.Render.Symbology
	if flags.Changed("type") {
		typeName, _ = flags.GetString("type")
	}
	typ, err := symbology.ParseType(typeName)
	if err != nil {
		return err
	}
	bc.Symbology = typ

	formatName := cfg.Render.Format
	if flags.Changed("format") {
		formatName, _ = flags.GetString("format")
	}
	if bc.Format, err = codec.ParseFormat(formatName); err != nil {
		return err
	}

	report := cfg.Batch.Report
	if flags.Changed("report") {
		report, _ = flags.GetString("report")
	}
	switch report {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("invalid report format: %s (must be one of: text, json, csv)", report)
	}

	if bc.Fonts, err = fontRegistry(cfg.Fonts.Dirs); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	quiet, _ := flags.GetBool("quiet")
	var progress batch.ProgressCallback
	if !quiet {
		progress = batch.NewConsoleProgressCallback(cmd.ErrOrStderr(), "Rendering")
	}

	result, runErr := batch.ProcessManifest(ctx, args[0], bc, progress)
	if result != nil {
		reportFile, _ := flags.GetString("report-file")
		if err := result.SaveResults(cmd.OutOrStdout(), report, reportFile, quiet); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}
	if failed := result.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d items failed", failed, len(result.Items))
	}
	return nil
}
