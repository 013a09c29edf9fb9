package symbology

import (
	"fmt"
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

// QRRecoveryLevel is the error correction level for QR symbols.
var QRRecoveryLevel = qrcode.Medium

type qrRenderer struct{}

func (qrRenderer) Name() string    { return QR.String() }
func (qrRenderer) Dimensions() int { return 2 }

func (qrRenderer) PrintMetrics(_, targetSize image.Point, _ int) Metrics {
	return Metrics{Canvas: targetSize, Target: targetSize}
}

func (r qrRenderer) Draw(value string, m Metrics) (image.Image, error) {
	q, err := qrcode.New(value, QRRecoveryLevel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name(), err)
	}

	side := m.Canvas.X
	if m.Canvas.Y < side {
		side = m.Canvas.Y
	}
	// Image never returns less than one pixel per module.
	img := q.Image(side)
	return fitCanvas(img, m.Canvas, true), nil
}
