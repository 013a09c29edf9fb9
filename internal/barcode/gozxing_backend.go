package barcode

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"strings"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/MeKo-Tech/barcodegen/internal/symbology"
)

type gozxingBackend struct{}

func (b *gozxingBackend) Decode(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, ok := newReader(opts.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, opts.Format)
	}

	// Apply ROI if requested and valid
	if !opts.ROI.Empty() {
		if roiImg, ok := subImage(img, opts.ROI); ok {
			img = roiImg
		}
	}

	hints := make(map[gozxing.DecodeHintType]interface{})
	if opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	switch opts.Format {
	case symbology.Codabar:
		hints[gozxing.DecodeHintType_RETURN_CODABAR_START_END] = true
	case symbology.DataMatrix:
		hints[gozxing.DecodeHintType_PURE_BARCODE] = true
	}

	bitmap, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("barcode: prepare bitmap: %w", err)
	}

	r, err := reader.Decode(bitmap, hints)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, opts.Format, err)
	}

	pts := r.GetResultPoints()
	points := make([]image.Point, 0, len(pts))
	for _, p := range pts {
		points = append(points, image.Pt(int(p.GetX()), int(p.GetY())))
	}

	return &Result{
		Type:   opts.Format,
		Value:  r.GetText(),
		Points: points,
		BBox:   rectFromPoints(points),
	}, nil
}

func newReader(t symbology.Type) (gozxing.Reader, bool) {
	switch t {
	case symbology.Code128:
		return oned.NewCode128Reader(), true
	case symbology.Code39:
		return oned.NewCode39Reader(), true
	case symbology.Code93:
		return oned.NewCode93Reader(), true
	case symbology.Codabar:
		return oned.NewCodaBarReader(), true
	case symbology.EAN:
		return oned.NewMultiFormatUPCEANReader(nil), true
	case symbology.ITF:
		return oned.NewITFReader(), true
	case symbology.QR:
		return qrcode.NewQRCodeReader(), true
	case symbology.DataMatrix:
		return datamatrix.NewDataMatrixReader(), true
	case symbology.Aztec:
		return aztec.NewAztecReader(), true
	default:
		return nil, false
	}
}

// Supported reports whether t can be decoded.
func Supported(t symbology.Type) bool {
	_, ok := newReader(t)
	return ok
}

// Verify decodes img and checks that it carries want.
func Verify(ctx context.Context, b Backend, img image.Image, t symbology.Type, want string) error {
	res, err := b.Decode(ctx, img, Options{Format: t, TryHarder: true})
	if err != nil {
		return err
	}
	if !matches(t, want, res.Value) {
		return fmt.Errorf("%w: got %q, want %q", ErrMismatch, res.Value, want)
	}
	return nil
}

// matches compares payloads. EAN encoders append the check digit when it is
// omitted, so a shorter expected value is compared as a prefix.
func matches(t symbology.Type, want, got string) bool {
	if want == got {
		return true
	}
	if t != symbology.EAN {
		return false
	}
	// EAN-13 with a leading zero is reported as UPC-A.
	if len(got) == 12 && strings.HasPrefix(want, "0") && (len(want) == 13 || len(want) == 12) {
		got = "0" + got
		if got == want {
			return true
		}
	}
	if len(want) == 7 || len(want) == 12 {
		return strings.HasPrefix(got, want) && len(got) == len(want)+1
	}
	return false
}

func rectFromPoints(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

func subImage(img image.Image, r image.Rectangle) (image.Image, bool) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil, false
	}
	if si, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return si.SubImage(r), true
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst, true
}
