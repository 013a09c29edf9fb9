package batch

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MeKo-Tech/barcodegen"
	"github.com/MeKo-Tech/barcodegen/internal/codec"
	"github.com/MeKo-Tech/barcodegen/internal/fonts"
	"github.com/MeKo-Tech/barcodegen/internal/symbology"
)

// Config holds all configuration for batch processing.
type Config struct {
	// Render settings applied to every item
	Font      string
	Width     int
	Height    int
	Symbology symbology.Type
	Spacing   bool
	Verify    bool
	Fonts     *fonts.Registry

	// Output settings
	Format    codec.Format
	OutputDir string

	// Parallel processing settings
	Workers         int
	ContinueOnError bool
}

// DefaultConfig mirrors the library defaults with four workers.
func DefaultConfig() *Config {
	return &Config{
		Font:      barcodegen.DefaultFontFamily,
		Width:     barcodegen.DefaultWidth,
		Height:    barcodegen.DefaultHeight,
		Symbology: symbology.Default,
		Spacing:   true,
		Format:    codec.PNG,
		OutputDir: ".",
		Workers:   4,
	}
}

// builder applies the configuration and item overrides to a new builder.
func (c *Config) builder(item Item) (*barcodegen.Configuration, symbology.Type, error) {
	typ := c.Symbology
	if item.Symbology != "" {
		t, err := symbology.ParseType(item.Symbology)
		if err != nil {
			return nil, typ, err
		}
		typ = t
	}

	b := barcodegen.NewBuilder(item.Value).
		CaptionFontFamily(c.Font).
		Size(c.Width, c.Height).
		Type(typ).
		CharacterSpacing(c.Spacing).
		Verify(c.Verify)
	if c.Fonts != nil {
		b.Fonts(c.Fonts)
	}
	if item.Caption != nil {
		b.Caption(*item.Caption)
	}
	return b, typ, b.Err()
}

// Result holds the result of batch processing.
type Result struct {
	ID          string
	Items       []ItemResult
	Duration    time.Duration
	WorkerCount int
}

// Succeeded counts items written without error.
func (r *Result) Succeeded() int {
	n := 0
	for _, it := range r.Items {
		if it.Err == nil && !it.Skipped {
			n++
		}
	}
	return n
}

// Failed counts items that returned an error.
func (r *Result) Failed() int {
	n := 0
	for _, it := range r.Items {
		if it.Err != nil {
			n++
		}
	}
	return n
}

// FormatResults formats the batch processing results in the specified format.
func (r *Result) FormatResults(format string) (string, error) {
	return formatBatchResults(r, format)
}

// SaveResults writes the formatted results to outputFile, or to w when no
// file is given.
func (r *Result) SaveResults(w io.Writer, format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !quiet {
			_, _ = fmt.Fprintf(w, "Report written to %s\n", outputFile)
		}
	} else {
		_, _ = fmt.Fprint(w, output)
	}

	return nil
}
