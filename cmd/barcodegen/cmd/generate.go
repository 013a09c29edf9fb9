package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/barcodegen"
	"github.com/spf13/cobra"
)

// generateCmd renders a single barcode.
var generateCmd = &cobra.Command{
	Use:   "generate VALUE",
	Short: "Render one barcode image",
	Long: `Render VALUE as a barcode of exactly --width x --height pixels.

The caption defaults to VALUE. With --output the image is written to a file
("-" writes raw bytes to stdout) and the format is taken from the file
extension unless --format is given. --base64 prints the encoded image as
base64 instead.

Examples:
  barcodegen generate 12345670 --output code.png
  barcodegen generate 12345670 --caption "Item 12345670" --font "Go" -o code.jpg
  barcodegen generate HELLO --type qr --no-caption --width 256 --height 256 --base64`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("caption", "", "caption text (default is the value)")
	generateCmd.Flags().Bool("no-caption", false, "render without a caption band")
	generateCmd.Flags().String("font", "", "caption font family")
	generateCmd.Flags().Int("width", 0, "image width in pixels")
	generateCmd.Flags().Int("height", 0, "image height in pixels")
	generateCmd.Flags().StringP("type", "t", "", "symbology (code128, code39, code93, codabar, ean, itf, 2of5, qr, datamatrix, aztec, pdf417)")
	generateCmd.Flags().StringP("format", "f", "", "output format (png, jpeg, bmp, gif, tiff, pdf)")
	generateCmd.Flags().Bool("spacing", true, "spread caption characters across the band")
	generateCmd.Flags().Bool("verify", false, "decode the rendered barcode and compare it with the value")
	generateCmd.Flags().StringP("output", "o", "", "output file (\"-\" for stdout)")
	generateCmd.Flags().Bool("base64", false, "print the image as base64 to stdout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	flags := cmd.Flags()

	output, _ := flags.GetString("output")
	asBase64, _ := flags.GetBool("base64")
	if output == "" && !asBase64 {
		return errors.New("either --output or --base64 is required")
	}

	font := cfg.Render.Font
	if flags.Changed("font") {
		font, _ = flags.GetString("font")
	}
	width := cfg.Render.Width
	if flags.Changed("width") {
		width, _ = flags.GetInt("width")
	}
	height := cfg.Render.Height
	if flags.Changed("height") {
		height, _ = flags.GetInt("height")
	}
	typeName := cfg.Render.Symbology
	if flags.Changed("type") {
		typeName, _ = flags.GetString("type")
	}
	spacing := cfg.Render.Spacing
	if flags.Changed("spacing") {
		spacing, _ = flags.GetBool("spacing")
	}
	verify := cfg.Render.Verify
	if flags.Changed("verify") {
		verify, _ = flags.GetBool("verify")
	}

	formatName := cfg.Render.Format
	switch {
	case flags.Changed("format"):
		formatName, _ = flags.GetString("format")
	case output != "" && output != "-" && filepath.Ext(output) != "":
		formatName = filepath.Ext(output)
	}

	typ, err := barcodegen.ParseSymbology(typeName)
	if err != nil {
		return err
	}
	format, err := barcodegen.ParseFormat(formatName)
	if err != nil {
		return err
	}
	registry, err := fontRegistry(cfg.Fonts.Dirs)
	if err != nil {
		return err
	}

	b := barcodegen.NewBuilder(args[0]).
		Fonts(registry).
		CaptionFontFamily(font).
		Size(width, height).
		Type(typ).
		CharacterSpacing(spacing).
		Verify(verify)
	if noCaption, _ := flags.GetBool("no-caption"); noCaption {
		b.NoCaption()
	} else if flags.Changed("caption") {
		caption, _ := flags.GetString("caption")
		b.Caption(caption)
	}

	if asBase64 {
		encoded, err := b.GenerateImageString(format)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), encoded)
		return nil
	}

	if output == "-" {
		return b.WriteTo(cmd.OutOrStdout(), format)
	}
	if err := writeFile(output, func(w io.Writer) error { return b.WriteTo(w, format) }); err != nil {
		return err
	}
	slog.Info("Barcode written", "file", output, "symbology", typ.String(), "format", format.String(),
		"width", width, "height", height)
	return nil
}

// writeFile writes through a temporary file so a failed render leaves no
// partial output behind.
func writeFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+"-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
