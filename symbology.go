package barcodegen

import (
	"github.com/MeKo-Tech/barcodegen/internal/codec"
	"github.com/MeKo-Tech/barcodegen/internal/symbology"
)

// Symbology selects the barcode encoding.
type Symbology = symbology.Type

// Supported symbologies.
const (
	Code128      = symbology.Code128
	Code39       = symbology.Code39
	Code93       = symbology.Code93
	Codabar      = symbology.Codabar
	EAN          = symbology.EAN
	ITF          = symbology.ITF
	Standard2of5 = symbology.Standard2of5
	QR           = symbology.QR
	DataMatrix   = symbology.DataMatrix
	Aztec        = symbology.Aztec
	PDF417       = symbology.PDF417
)

// Symbologies lists every supported symbology.
func Symbologies() []Symbology { return symbology.Types() }

// ParseSymbology resolves a name such as "code128" or "qr".
func ParseSymbology(name string) (Symbology, error) { return symbology.ParseType(name) }

// Format is an encoded image container.
type Format = codec.Format

// Supported output formats.
const (
	PNG  = codec.PNG
	JPEG = codec.JPEG
	BMP  = codec.BMP
	GIF  = codec.GIF
	TIFF = codec.TIFF
	PDF  = codec.PDF
)

// Formats lists every supported output format.
func Formats() []Format { return codec.Formats() }

// ParseFormat resolves a format name or file extension.
func ParseFormat(name string) (Format, error) { return codec.ParseFormat(name) }
