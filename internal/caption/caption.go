// Package caption renders caption text into a fixed-size band.
//
// The text is scaled to the largest font size at which it fits both the band
// width and the band height, centred, and optionally stretched across the
// band by inserting the same number of spaces around every character.
package caption

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

const (
	// MeasureSize is the font size used for the initial measurement.
	MeasureSize = 50.0
	// DPI makes one point equal one pixel.
	DPI = 72
	// MinFontSize is the smallest size a caption is drawn at. A caption that
	// only fits the band below it is not drawn.
	MinFontSize = 0.5

)

var (
	// ErrInvalidBand is returned for non-positive band dimensions.
	ErrInvalidBand = errors.New("caption band must have positive width and height")
	// ErrNoFont is returned when no font is supplied.
	ErrNoFont = errors.New("caption font is required")
)

// Options controls caption layout.
type Options struct {
	// Spacing stretches short captions across the band width.
	Spacing bool
}

// Layout is the outcome of fitting a caption into a band.
type Layout struct {
	// Text is the string that is drawn, including DrawnSpaceCount padding.
	// Empty when the caption only fits below MinFontSize.
	Text string
	// FontSize is the final size in points.
	FontSize float64
	// Width and Height are the measured box of the unpadded caption at FontSize.
	Width  float64
	Height float64
	// SpaceCount is the smallest padding whose measured width reaches the
	// band width. Zero when spacing is off or the caption is blank.
	SpaceCount int
	// PaddedWidth is the measured width of the caption padded with SpaceCount.
	PaddedWidth float64
	// DrawnSpaceCount is the padding actually drawn, never more than
	// SpaceCount. It is lower than SpaceCount when the padded caption's inked
	// glyphs would overflow the band, so Text may carry less padding than the
	// searched minimum.
	DrawnSpaceCount int
}

// Fit computes the layout of caption inside a w x h band.
func Fit(f *opentype.Font, caption string, w, h int, opts Options) (Layout, error) {
	if w <= 0 || h <= 0 {
		return Layout{}, fmt.Errorf("%w: %dx%d", ErrInvalidBand, w, h)
	}
	if f == nil {
		return Layout{}, ErrNoFont
	}

	caption = norm.NFC.String(caption)
	if caption == "" {
		return Layout{}, nil
	}

	pw, ph, err := measureAt(f, MeasureSize, caption)
	if err != nil {
		return Layout{}, err
	}
	if ph <= 0 {
		return Layout{Text: caption}, nil
	}

	ratio := float64(h) / ph
	if pw > 0 {
		ratio = math.Min(ratio, float64(w)/pw)
	}
	size := MeasureSize * ratio
	if size < MinFontSize {
		return Layout{}, nil
	}

	mw, mh, size, err := refine(f, caption, size, float64(w), float64(h))
	if err != nil {
		return Layout{}, err
	}
	if size < MinFontSize {
		return Layout{}, nil
	}

	layout := Layout{
		Text:        caption,
		FontSize:    size,
		Width:       mw,
		Height:      mh,
		PaddedWidth: mw,
	}

	if !opts.Spacing || isBlank(caption) {
		return layout, nil
	}

	if err := fitSpacing(f, &layout, caption, float64(w)); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

// refine shrinks size until the measured box fits the band. Advance widths
// are quantised per glyph, so the linear estimate can overshoot slightly.
// Every pass shrinks size by at least 0.1%, so the loop ends once the box
// fits or size drops below MinFontSize, in which case size is returned as is.
func refine(f *opentype.Font, caption string, size, w, h float64) (float64, float64, float64, error) {
	for size >= MinFontSize {
		mw, mh, err := measureAt(f, size, caption)
		if err != nil {
			return 0, 0, 0, err
		}

		over := math.Max(mw/w, mh/h)
		if over <= 1 {
			return mw, mh, size, nil
		}
		size = size / over * 0.999
	}
	return 0, 0, size, nil
}

func fitSpacing(f *opentype.Font, layout *Layout, caption string, w float64) error {
	face, err := newFace(f, layout.FontSize)
	if err != nil {
		return err
	}
	defer func() { _ = face.Close() }()

	runes := []rune(caption)
	n, paddedWidth := searchSpaceCount(face, runes, w)
	layout.SpaceCount = n
	layout.PaddedWidth = paddedWidth

	m := n
	for m > 0 && width(face, pad(runes, m, false)) > w {
		m--
	}
	layout.DrawnSpaceCount = m
	layout.Text = pad(runes, m, true)
	return nil
}

// searchSpaceCount finds the smallest n whose padded width reaches w. The
// search is linear from zero and bounded by the space advance; when spaces
// have no advance the caption cannot be stretched and n stays 0.
func searchSpaceCount(face font.Face, runes []rune, w float64) (int, float64) {
	w0 := width(face, string(runes))
	if w0 >= w {
		return 0, w0
	}

	space, ok := face.GlyphAdvance(' ')
	if !ok || space <= 0 {
		return 0, w0
	}

	slots := float64(len(runes) + 1)
	limit := int(math.Ceil((w-w0)/(slots*toFloat(space)))) + 2

	var pw float64
	for n := 0; n <= limit; n++ {
		pw = width(face, pad(runes, n, true))
		if pw >= w {
			return n, pw
		}
	}
	return limit, pw
}

// Render draws caption centred in black on a white w x h band.
func Render(f *opentype.Font, caption string, w, h int, opts Options) (*image.NRGBA, Layout, error) {
	layout, err := Fit(f, caption, w, h, opts)
	if err != nil {
		return nil, Layout{}, err
	}

	dst := imaging.New(w, h, color.White)
	if layout.Text == "" || layout.FontSize <= 0 {
		return dst, layout, nil
	}

	face, err := newFace(f, layout.FontSize)
	if err != nil {
		return nil, Layout{}, err
	}
	defer func() { _ = face.Close() }()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	adv := d.MeasureString(layout.Text)
	m := face.Metrics()
	d.Dot = fixed.Point26_6{
		X: (fixed.I(w) - adv) / 2,
		Y: (fixed.I(h)-(m.Ascent+m.Descent))/2 + m.Ascent,
	}
	d.DrawString(layout.Text)

	return dst, layout, nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face at %.2fpt: %w", size, err)
	}
	return face, nil
}

// measureAt returns the advance width and line height of s in pixels.
func measureAt(f *opentype.Font, size float64, s string) (float64, float64, error) {
	face, err := newFace(f, size)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = face.Close() }()

	m := face.Metrics()
	return width(face, s), toFloat(m.Ascent + m.Descent), nil
}

func width(face font.Face, s string) float64 {
	return toFloat(font.MeasureString(face, s))
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
