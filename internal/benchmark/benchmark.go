// Package benchmark measures render throughput per symbology and output
// format.
package benchmark

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/barcodegen"
	"github.com/MeKo-Tech/barcodegen/internal/common"
)

// sampleValues are payloads every renderer accepts.
var sampleValues = map[barcodegen.Symbology]string{
	barcodegen.Code128:      "BENCH-12345670",
	barcodegen.Code39:       "ABC-123",
	barcodegen.Code93:       "ABC123",
	barcodegen.Codabar:      "A40156B",
	barcodegen.EAN:          "5901234123457",
	barcodegen.ITF:          "12345670",
	barcodegen.Standard2of5: "12345670",
	barcodegen.QR:           "https://example.com/12345670",
	barcodegen.DataMatrix:   "12345670",
	barcodegen.Aztec:        "12345670",
	barcodegen.PDF417:       "12345670",
}

// SampleValue returns a payload valid for t.
func SampleValue(t barcodegen.Symbology) string {
	if v, ok := sampleValues[t]; ok {
		return v
	}
	return "12345670"
}

// Case is one symbology and format combination.
type Case struct {
	Symbology barcodegen.Symbology
	Format    barcodegen.Format
	Value     string
	Width     int
	Height    int
}

// Name identifies the case in reports.
func (c Case) Name() string {
	return fmt.Sprintf("%s/%s %dx%d", c.Symbology, c.Format, c.Width, c.Height)
}

// Cases builds the cross product of types and formats at one size.
func Cases(types []barcodegen.Symbology, formats []barcodegen.Format, width, height int) []Case {
	cases := make([]Case, 0, len(types)*len(formats))
	for _, t := range types {
		for _, f := range formats {
			cases = append(cases, Case{
				Symbology: t,
				Format:    f,
				Value:     SampleValue(t),
				Width:     width,
				Height:    height,
			})
		}
	}
	return cases
}

// Result is the measurement of one case.
type Result struct {
	Case
	common.BenchmarkResult

	// Bytes is the encoded size of one output.
	Bytes int
}

// defaultFont is the caption family used when Suite.Font is empty.
const defaultFont = "Courier New"

// Suite renders each case a fixed number of times.
type Suite struct {
	Iterations int
	Font       string
	Fonts      *barcodegen.FontRegistry
	Verify     bool
}

// NewSuite creates a suite with the default font registry.
func NewSuite(iterations int) *Suite {
	return &Suite{Iterations: iterations, Font: defaultFont, Fonts: barcodegen.DefaultFonts()}
}

// Run measures every case in order. A failing case is reported in its
// result and does not stop the suite; cancellation does.
func (s *Suite) Run(ctx context.Context, cases []Case) ([]Result, error) {
	iterations := max(s.Iterations, 1)
	font := s.Font
	if font == "" {
		font = defaultFont
	}
	registry := s.Fonts
	if registry == nil {
		registry = barcodegen.DefaultFonts()
	}
	results := make([]Result, 0, len(cases))

	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		builder := barcodegen.NewBuilder(c.Value).
			Fonts(registry).
			CaptionFontFamily(font).
			Size(c.Width, c.Height).
			Type(c.Symbology).
			Verify(s.Verify)

		size := 0
		res := common.Measure(c.Name(), iterations, func() error {
			data, err := builder.GenerateBytes(c.Format)
			size = len(data)
			return err
		})
		if res.Error != nil {
			slog.Warn("Benchmark case failed", "case", c.Name(), "error", res.Error)
		} else {
			slog.Debug("Benchmark case finished", "case", c.Name(), "avg", res.Average())
		}
		results = append(results, Result{Case: c, BenchmarkResult: res, Bytes: size})
	}
	return results, nil
}

// WriteText writes one line per result plus the fastest and slowest case.
func WriteText(w io.Writer, results []Result) error {
	var b strings.Builder
	var fastest, slowest *Result
	for i := range results {
		r := &results[i]
		fmt.Fprintf(&b, "%s, %d bytes\n", r.BenchmarkResult.String(), r.Bytes)
		if r.Error != nil {
			continue
		}
		if fastest == nil || r.Average() < fastest.Average() {
			fastest = r
		}
		if slowest == nil || r.Average() > slowest.Average() {
			slowest = r
		}
	}
	if fastest != nil {
		fmt.Fprintf(&b, "\nfastest: %s (%v)\nslowest: %s (%v)\n",
			fastest.Case.Name(), fastest.Average(), slowest.Case.Name(), slowest.Average())
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCSV writes results with a header row.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"symbology", "format", "width", "height", "iterations", "avg_ms", "alloc_kb_per_op", "bytes", "error",
	}); err != nil {
		return err
	}
	for _, r := range results {
		errText := ""
		if r.Error != nil {
			errText = r.Error.Error()
		}
		row := []string{
			r.Symbology.String(),
			r.Format.String(),
			strconv.Itoa(r.Width),
			strconv.Itoa(r.Height),
			strconv.Itoa(r.Iterations),
			strconv.FormatFloat(float64(r.Average().Nanoseconds())/1e6, 'f', 3, 64),
			strconv.FormatUint(r.AllocatedPerOp()/1024, 10),
			strconv.Itoa(r.Bytes),
			errText,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
