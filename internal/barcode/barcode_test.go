package barcode

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/MeKo-Tech/barcodegen/internal/symbology"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// render draws value and surrounds it with a white quiet zone.
func render(t *testing.T, typ symbology.Type, value string, w, h int) image.Image {
	t.Helper()
	r, err := symbology.Get(typ)
	require.NoError(t, err)

	m := r.PrintMetrics(image.Pt(max(w, h), max(w, h)), image.Pt(w, h), len(value))
	img, err := r.Draw(value, m)
	require.NoError(t, err)

	margin := 40
	canvas := imaging.New(img.Bounds().Dx()+2*margin, img.Bounds().Dy()+2*margin, color.White)
	return imaging.Paste(canvas, img, image.Pt(margin, margin))
}

func TestDecode_Code128(t *testing.T) {
	img := render(t, symbology.Code128, "12345670", 400, 120)

	res, err := NewBackend().Decode(context.Background(), img, Options{Format: symbology.Code128, TryHarder: true})
	require.NoError(t, err)
	assert.Equal(t, "12345670", res.Value)
	assert.Equal(t, symbology.Code128, res.Type)
	assert.NotEmpty(t, res.Points)
}

func TestDecode_QR(t *testing.T) {
	img := render(t, symbology.QR, "https://example.com/12345670", 300, 300)

	res, err := NewBackend().Decode(context.Background(), img, Options{Format: symbology.QR})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/12345670", res.Value)
	assert.False(t, res.BBox.Empty())
}

func TestDecode_BlankImage(t *testing.T) {
	img := imaging.New(200, 100, color.White)
	_, err := NewBackend().Decode(context.Background(), img, Options{Format: symbology.Code128})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecode_Unsupported(t *testing.T) {
	for _, typ := range []symbology.Type{symbology.Standard2of5, symbology.PDF417} {
		assert.False(t, Supported(typ))
		_, err := NewBackend().Decode(context.Background(), imaging.New(10, 10, color.White), Options{Format: typ})
		assert.ErrorIs(t, err, ErrUnsupported)
	}
	assert.True(t, Supported(symbology.Code128))
}

func TestDecode_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBackend().Decode(ctx, imaging.New(10, 10, color.White), Options{Format: symbology.QR})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerify(t *testing.T) {
	img := render(t, symbology.Code128, "ABC", 300, 100)
	b := NewBackend()

	require.NoError(t, Verify(context.Background(), b, img, symbology.Code128, "ABC"))
	assert.ErrorIs(t, Verify(context.Background(), b, img, symbology.Code128, "ABD"), ErrMismatch)
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		typ  symbology.Type
		want string
		got  string
		ok   bool
	}{
		{"exact", symbology.Code128, "ABC", "ABC", true},
		{"different", symbology.Code128, "ABC", "ABD", false},
		{"ean13 check digit appended", symbology.EAN, "590123412345", "5901234123457", true},
		{"ean8 check digit appended", symbology.EAN, "9638507", "96385074", true},
		{"ean13 reported as upc-a", symbology.EAN, "0012345678905", "012345678905", true},
		{"prefix outside ean", symbology.Code128, "1234", "12345", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, matches(tt.typ, tt.want, tt.got))
		})
	}
}

func TestRectFromPoints(t *testing.T) {
	assert.True(t, rectFromPoints(nil).Empty())
	r := rectFromPoints([]image.Point{{5, 9}, {1, 3}, {7, 4}})
	assert.Equal(t, image.Rect(1, 3, 8, 10), r)
}

func TestSubImage(t *testing.T) {
	img := imaging.New(20, 20, color.White)
	sub, ok := subImage(img, image.Rect(5, 5, 50, 50))
	require.True(t, ok)
	assert.Equal(t, image.Rect(5, 5, 20, 20), sub.Bounds())

	_, ok = subImage(img, image.Rect(30, 30, 40, 40))
	assert.False(t, ok)
}
