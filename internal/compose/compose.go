// Package compose renders a barcode and its optional caption band into one
// raster of exactly the requested size.
package compose

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/MeKo-Tech/barcodegen/internal/caption"
	"github.com/MeKo-Tech/barcodegen/internal/symbology"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font/opentype"
)

// BandDivisor sets the caption band height to H / BandDivisor.
const BandDivisor = 5

// ErrInvalidSize is returned for non-positive output sizes.
var ErrInvalidSize = errors.New("output size must be positive")

// Request holds everything needed for one render.
type Request struct {
	Value    string
	Caption  string
	Font     *opentype.Font
	Size     image.Point
	Renderer symbology.Renderer
	Spacing  bool
}

// Result is a rendered image plus the pieces it was built from.
type Result struct {
	Image *image.NRGBA
	// BarcodeRect is where the symbol was placed.
	BarcodeRect image.Rectangle
	// CaptionRect is empty when no caption band was drawn.
	CaptionRect image.Rectangle
	Layout      caption.Layout
	Metrics     symbology.Metrics
}

// StageError names the render stage that failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Stages reported in StageError.
const (
	StageSymbology = "symbology"
	StageCaption   = "caption"
)

// BandHeight returns the caption band height for an output height.
func BandHeight(h int) int {
	return h / BandDivisor
}

// Render draws the barcode at the top of a white canvas of req.Size and,
// when a caption is present, the caption band flush at the bottom.
func Render(req Request) (*Result, error) {
	w, h := req.Size.X, req.Size.Y
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if req.Renderer == nil {
		return nil, &StageError{Stage: StageSymbology, Err: errors.New("no renderer")}
	}

	band := 0
	if req.Caption != "" {
		band = BandHeight(h)
		if band == 0 {
			slog.Debug("output too short for a caption band", "height", h)
		}
	}
	barH := h - band
	barcodeRect := image.Rect(0, 0, w, barH)

	side := max(w, barH)
	metrics := req.Renderer.PrintMetrics(image.Pt(side, side), barcodeRect.Size(), len(req.Value))
	if metrics.Squeezed() {
		slog.Debug("barcode narrower than its modules",
			"symbology", req.Renderer.Name(), "width", w, "min_width", metrics.MinWidth)
	}

	symbol, err := req.Renderer.Draw(req.Value, metrics)
	if err != nil {
		return nil, &StageError{Stage: StageSymbology, Err: err}
	}

	out := imaging.New(w, h, color.White)
	out = imaging.Paste(out, fit(symbol, barcodeRect.Size()), barcodeRect.Min)

	res := &Result{BarcodeRect: barcodeRect, Metrics: metrics}
	if band > 0 {
		captionRect := image.Rect(0, barH, w, h)
		img, layout, err := caption.Render(req.Font, req.Caption, w, band, caption.Options{Spacing: req.Spacing})
		if err != nil {
			return nil, &StageError{Stage: StageCaption, Err: err}
		}
		out = imaging.Paste(out, img, captionRect.Min)
		res.CaptionRect = captionRect
		res.Layout = layout
	}

	res.Image = out
	return res, nil
}

// fit scales img to exactly size. Nearest-neighbour keeps module edges sharp.
func fit(img image.Image, size image.Point) image.Image {
	if img.Bounds().Size() == size {
		return img
	}
	return imaging.Resize(img, size.X, size.Y, imaging.NearestNeighbor)
}
