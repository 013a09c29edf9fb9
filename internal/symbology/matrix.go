package symbology

import (
	"fmt"
	"image"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/aztec"
	"github.com/boombuler/barcode/datamatrix"
	"github.com/boombuler/barcode/pdf417"
)

// pdf417SecurityLevel selects 8 error correction codewords.
const pdf417SecurityLevel = 2

var matrixEncoders = map[Type]encodeFunc{
	DataMatrix: func(v string) (barcode.Barcode, error) { return datamatrix.Encode(v) },
	Aztec: func(v string) (barcode.Barcode, error) {
		return aztec.Encode([]byte(v), aztec.DEFAULT_EC_PERCENT, aztec.DEFAULT_LAYERS)
	},
	PDF417: func(v string) (barcode.Barcode, error) { return pdf417.Encode(v, pdf417SecurityLevel) },
}

// matrixRenderer draws two-dimensional and stacked symbologies directly at
// the target size using the largest integer module scale.
type matrixRenderer struct {
	kind   Type
	encode encodeFunc
}

func newMatrixFactory(t Type, enc encodeFunc) Factory {
	return func() Renderer { return matrixRenderer{kind: t, encode: enc} }
}

func (r matrixRenderer) Name() string    { return r.kind.String() }
func (r matrixRenderer) Dimensions() int { return 2 }

func (r matrixRenderer) PrintMetrics(_, targetSize image.Point, _ int) Metrics {
	return Metrics{Canvas: targetSize, Target: targetSize}
}

func (r matrixRenderer) Draw(value string, m Metrics) (image.Image, error) {
	bc, err := r.encode(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name(), err)
	}

	natural := naturalSize(bc)
	if m.Canvas.X >= natural.X && m.Canvas.Y >= natural.Y {
		scaled, err := barcode.Scale(bc, m.Canvas.X, m.Canvas.Y)
		if err != nil {
			return nil, fmt.Errorf("%s: scale: %w", r.Name(), err)
		}
		return scaled, nil
	}
	return fitCanvas(bc, m.Canvas, true), nil
}
