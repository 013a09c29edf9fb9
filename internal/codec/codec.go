// Package codec encodes rendered barcodes into image containers.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// JPEGQuality is used for JPEG output.
const JPEGQuality = 95

// ErrUnsupportedFormat is returned for unknown container formats.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is an output container.
type Format int

const (
	PNG Format = iota
	JPEG
	BMP
	GIF
	TIFF
	PDF
)

type formatInfo struct {
	name        string
	ext         string
	contentType string
}

var formats = map[Format]formatInfo{
	PNG:  {"png", ".png", "image/png"},
	JPEG: {"jpeg", ".jpg", "image/jpeg"},
	BMP:  {"bmp", ".bmp", "image/bmp"},
	GIF:  {"gif", ".gif", "image/gif"},
	TIFF: {"tiff", ".tiff", "image/tiff"},
	PDF:  {"pdf", ".pdf", "application/pdf"},
}

// Formats lists all supported formats.
func Formats() []Format {
	return []Format{PNG, JPEG, BMP, GIF, TIFF, PDF}
}

func (f Format) String() string {
	if info, ok := formats[f]; ok {
		return info.name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return formats[f].ext
}

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	if info, ok := formats[f]; ok {
		return info.contentType
	}
	return "application/octet-stream"
}

// ParseFormat accepts names and extensions such as "png", ".jpg" or "TIF".
// An empty name selects PNG.
func ParseFormat(name string) (Format, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	switch key {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "gif":
		return GIF, nil
	case "tif", "tiff":
		return TIFF, nil
	case "pdf":
		return PDF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return imaging.Encode(w, img, imaging.PNG)
	case JPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	case BMP:
		return imaging.Encode(w, img, imaging.BMP)
	case GIF:
		return imaging.Encode(w, img, imaging.GIF)
	case TIFF:
		return imaging.Encode(w, img, imaging.TIFF)
	case PDF:
		return encodePDF(w, img)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}

// EncodeBytes encodes img and returns the bytes.
func EncodeBytes(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func init() {
	// Keep pdfcpu from creating a config directory under the user's home.
	api.DisableConfigDir()
}

// encodePDF embeds img as a PNG on a single page.
func encodePDF(w io.Writer, img image.Image) error {
	var png bytes.Buffer
	if err := imaging.Encode(&png, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode pdf page image: %w", err)
	}

	imp := pdfcpu.DefaultImportConfig()
	conf := model.NewDefaultConfiguration()
	if err := api.ImportImages(nil, w, []io.Reader{&png}, imp, conf); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
