package symbology

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/codabar"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/code93"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/twooffive"
)

type encodeFunc func(value string) (barcode.Barcode, error)

type linearEncoder struct {
	encode encodeFunc
	// modules estimates the symbol width in modules for a payload length.
	modules func(n int) int
}

var linearEncoders = map[Type]linearEncoder{
	Code128: {
		encode: func(v string) (barcode.Barcode, error) { return code128.Encode(v) },
		// start + data + checksum + stop, worst case one symbol per rune
		modules: func(n int) int { return 11*(n+2) + 13 },
	},
	Code39: {
		encode: func(v string) (barcode.Barcode, error) { return code39.Encode(v, false, true) },
		modules: func(n int) int { return 13 * (n + 2) },
	},
	Code93: {
		encode: func(v string) (barcode.Barcode, error) { return code93.Encode(v, true, true) },
		modules: func(n int) int { return 9*(n+4) + 1 },
	},
	Codabar: {
		encode: func(v string) (barcode.Barcode, error) { return codabar.Encode(v) },
		modules: func(n int) int { return 10 * n },
	},
	EAN: {
		encode: func(v string) (barcode.Barcode, error) { return ean.Encode(v) },
		modules: func(n int) int {
			if n <= 8 {
				return 67
			}
			return 95
		},
	},
	ITF: {
		encode: func(v string) (barcode.Barcode, error) { return twooffive.Encode(v, true) },
		modules: func(n int) int { return 9*n + 9 },
	},
	Standard2of5: {
		encode: func(v string) (barcode.Barcode, error) { return twooffive.Encode(v, false) },
		modules: func(n int) int { return 14*n + 18 },
	},
}

// linearRenderer draws one-dimensional symbologies. Bars only stretch
// vertically, so the canvas keeps the target width and takes the
// oversized height.
type linearRenderer struct {
	kind Type
	enc  linearEncoder
}

func newLinearFactory(t Type, enc linearEncoder) Factory {
	return func() Renderer { return linearRenderer{kind: t, enc: enc} }
}

func (r linearRenderer) Name() string    { return r.kind.String() }
func (r linearRenderer) Dimensions() int { return 1 }

func (r linearRenderer) PrintMetrics(maxSize, targetSize image.Point, valueLength int) Metrics {
	h := maxSize.Y
	if h < targetSize.Y {
		h = targetSize.Y
	}
	return Metrics{
		Canvas:   image.Pt(targetSize.X, h),
		Target:   targetSize,
		MinWidth: r.enc.modules(valueLength),
	}
}

func (r linearRenderer) Draw(value string, m Metrics) (image.Image, error) {
	bc, err := r.enc.encode(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name(), err)
	}

	natural := naturalSize(bc)
	if m.Canvas.X >= natural.X {
		scaled, err := barcode.Scale(bc, m.Canvas.X, m.Canvas.Y)
		if err != nil {
			return nil, fmt.Errorf("%s: scale: %w", r.Name(), err)
		}
		return scaled, nil
	}

	slog.Debug("symbol wider than canvas, squeezing",
		"symbology", r.Name(), "modules", natural.X, "canvas_width", m.Canvas.X)
	scaled, err := barcode.Scale(bc, natural.X, m.Canvas.Y)
	if err != nil {
		return nil, fmt.Errorf("%s: scale: %w", r.Name(), err)
	}
	return fitCanvas(scaled, m.Canvas, false), nil
}
