package codec

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/dslipak/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() image.Image {
	img := imaging.New(64, 32, color.White)
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x += 4 {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", PNG, false},
		{"png", PNG, false},
		{".PNG", PNG, false},
		{"jpg", JPEG, false},
		{"JPEG", JPEG, false},
		{"bmp", BMP, false},
		{"gif", GIF, false},
		{"tif", TIFF, false},
		{"tiff", TIFF, false},
		{"pdf", PDF, false},
		{"webp", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Metadata(t *testing.T) {
	for _, f := range Formats() {
		parsed, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
		assert.NotEmpty(t, f.Extension())
		assert.NotEqual(t, "application/octet-stream", f.ContentType())
	}
	assert.Equal(t, "application/octet-stream", Format(42).ContentType())
	assert.Equal(t, "format(42)", Format(42).String())
}

func TestEncode_RasterRoundTrip(t *testing.T) {
	src := testImage()

	for _, f := range []Format{PNG, JPEG, BMP, GIF, TIFF} {
		t.Run(f.String(), func(t *testing.T) {
			data, err := EncodeBytes(src, f)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			decoded, err := imaging.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, src.Bounds().Size(), decoded.Bounds().Size())
		})
	}
}

func TestEncode_PDF(t *testing.T) {
	data, err := EncodeBytes(testImage(), PDF)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	pages, err := api.PageCount(bytes.NewReader(data), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)

	// An independent reader sees the same single page.
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Equal(t, 1, reader.NumPage())
	assert.False(t, reader.Page(1).V.IsNull())
}

func TestEncode_Unsupported(t *testing.T) {
	_, err := EncodeBytes(testImage(), Format(42))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
