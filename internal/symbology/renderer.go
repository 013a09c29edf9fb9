package symbology

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/boombuler/barcode"
	"github.com/disintegration/imaging"
)

// ErrUnknownSymbology is returned for tags without a registered renderer.
var ErrUnknownSymbology = errors.New("unknown symbology")

// Metrics describes the raster a renderer will produce for one call.
type Metrics struct {
	// Canvas is the exact size of the raster returned by Draw.
	Canvas image.Point
	// Target is the region the raster is fitted into afterwards.
	Target image.Point
	// MinWidth estimates the narrowest width, in pixels, at which every
	// module still gets one pixel. Zero when no estimate exists.
	MinWidth int
}

// Squeezed reports whether the target is narrower than one pixel per module.
func (m Metrics) Squeezed() bool {
	return m.MinWidth > 0 && m.Target.X < m.MinWidth
}

// Renderer draws a single symbology.
type Renderer interface {
	Name() string
	// Dimensions is 1 for linear symbologies and 2 for matrix or stacked ones.
	Dimensions() int
	PrintMetrics(maxSize, targetSize image.Point, valueLength int) Metrics
	Draw(value string, m Metrics) (image.Image, error)
}

// Factory creates a renderer.
type Factory func() Renderer

var (
	mu        sync.RWMutex
	factories = map[Type]Factory{}
)

// Register installs or replaces the factory for a symbology.
func Register(t Type, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[t] = f
}

// Get returns a renderer for the given symbology.
func Get(t Type) (Renderer, error) {
	mu.RLock()
	f, ok := factories[t]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbology, t)
	}
	return f(), nil
}

func init() {
	for t, enc := range linearEncoders {
		Register(t, newLinearFactory(t, enc))
	}
	for t, enc := range matrixEncoders {
		Register(t, newMatrixFactory(t, enc))
	}
	Register(QR, func() Renderer { return qrRenderer{} })
}

// fitCanvas returns img at exactly canvas. With keepAspect the image is
// shrunk to fit and centred on white, otherwise it is stretched.
func fitCanvas(img image.Image, canvas image.Point, keepAspect bool) image.Image {
	if img.Bounds().Size() == canvas {
		return img
	}
	if !keepAspect {
		return imaging.Resize(img, canvas.X, canvas.Y, imaging.NearestNeighbor)
	}
	fitted := imaging.Fit(img, canvas.X, canvas.Y, imaging.NearestNeighbor)
	return imaging.PasteCenter(imaging.New(canvas.X, canvas.Y, color.White), fitted)
}

// naturalSize is the symbol size at one pixel per module.
func naturalSize(bc barcode.Barcode) image.Point {
	return bc.Bounds().Size()
}
