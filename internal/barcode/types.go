package barcode

import (
	"context"
	"errors"
	"image"

	"github.com/MeKo-Tech/barcodegen/internal/symbology"
)

var (
	// ErrNotFound is returned when no symbol could be decoded.
	ErrNotFound = errors.New("barcode: no symbol found")
	// ErrMismatch is returned when the decoded payload differs from the expected one.
	ErrMismatch = errors.New("barcode: decoded payload does not match")
	// ErrUnsupported is returned for symbologies without a decoder.
	ErrUnsupported = errors.New("barcode: no decoder for symbology")
)

// Options controls decoding.
type Options struct {
	// Format selects the reader.
	Format symbology.Type

	// TryHarder enables a more exhaustive search.
	TryHarder bool

	// ROI optionally restricts decoding to a sub-rectangle of the image.
	// Zero-sized or out-of-bounds rectangles are ignored.
	ROI image.Rectangle
}

// Result represents a decoded barcode.
type Result struct {
	Type   symbology.Type
	Value  string
	Points []image.Point
	BBox   image.Rectangle
}

// Backend decodes barcodes from images.
type Backend interface {
	Decode(ctx context.Context, img image.Image, opts Options) (*Result, error)
}

// NewBackend returns the gozxing-backed decoder.
func NewBackend() Backend { return &gozxingBackend{} }
