package symbology

import (
	"fmt"
	"strings"
)

// Type identifies a barcode symbology.
type Type int

const (
	Code128 Type = iota
	Code39
	Code93
	Codabar
	EAN
	ITF
	Standard2of5
	QR
	DataMatrix
	Aztec
	PDF417
)

// Default is the symbology used when none is configured.
const Default = Code128

var typeNames = map[Type]string{
	Code128:      "code128",
	Code39:       "code39",
	Code93:       "code93",
	Codabar:      "codabar",
	EAN:          "ean",
	ITF:          "itf",
	Standard2of5: "2of5",
	QR:           "qr",
	DataMatrix:   "datamatrix",
	Aztec:        "aztec",
	PDF417:       "pdf417",
}

var typeAliases = map[string]Type{
	"code-128":    Code128,
	"code_128":    Code128,
	"code-39":     Code39,
	"code93":      Code93,
	"code-93":     Code93,
	"ean13":       EAN,
	"ean-13":      EAN,
	"ean8":        EAN,
	"ean-8":       EAN,
	"interleaved": ITF,
	"i2of5":       ITF,
	"2of5":        Standard2of5,
	"s2of5":       Standard2of5,
	"qrcode":      QR,
	"qr-code":     QR,
	"data-matrix": DataMatrix,
	"pdf-417":     PDF417,
}

// String returns the canonical lower-case name.
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("symbology(%d)", int(t))
}

// Types returns all known symbologies in declaration order.
func Types() []Type {
	out := make([]Type, 0, len(typeNames))
	for t := Code128; t <= PDF417; t++ {
		out = append(out, t)
	}
	return out
}

// ParseType resolves a name or common alias, case-insensitively.
func ParseType(name string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Default, nil
	}
	for t, n := range typeNames {
		if n == key {
			return t, nil
		}
	}
	if t, ok := typeAliases[key]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSymbology, name)
}
