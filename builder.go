package barcodegen

import (
	"image"
	"strings"

	"github.com/MeKo-Tech/barcodegen/internal/fonts"
)

// Defaults applied by NewBuilder.
const (
	DefaultFontFamily = "Courier New"
	DefaultWidth      = 200
	DefaultHeight     = 100
)

// FontRegistry resolves caption font families.
type FontRegistry = fonts.Registry

// NewFontRegistry returns a registry holding the built-in Go fonts.
func NewFontRegistry() *FontRegistry { return fonts.NewRegistry() }

// DefaultFonts returns the registry used when none is configured.
func DefaultFonts() *FontRegistry { return fonts.Default() }

// Configuration describes one barcode render. Setters return the receiver so
// calls can be chained; the first invalid argument is kept and returned by
// every Generate method.
//
// A Configuration is not safe for concurrent mutation. It is copied when a
// Generate method starts, so it may be reused after that call returns.
type Configuration struct {
	value      string
	caption    string
	captionSet bool
	fontFamily string
	size       image.Point
	symbology  Symbology
	spacing    bool
	verify     bool
	fonts      *fonts.Registry
	err        error
}

// NewBuilder starts a configuration for value with default settings: the
// caption equals value, Courier New, 200x100, Code128 and character spacing
// enabled.
func NewBuilder(value string) *Configuration {
	c := &Configuration{
		value:      value,
		fontFamily: DefaultFontFamily,
		size:       image.Pt(DefaultWidth, DefaultHeight),
		symbology:  Code128,
		spacing:    true,
	}
	if value == "" {
		c.fail(invalidArgument("value must not be empty"))
	}
	return c
}

func (c *Configuration) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Err returns the first invalid argument recorded by the builder.
func (c *Configuration) Err() error {
	return c.err
}

// Caption sets the caption text. An empty string means no caption.
func (c *Configuration) Caption(text string) *Configuration {
	c.caption = text
	c.captionSet = true
	return c
}

// NoCaption removes the caption.
func (c *Configuration) NoCaption() *Configuration {
	return c.Caption("")
}

// CaptionFontFamily sets the caption font. Unknown families fall back to the
// built-in monospace font.
func (c *Configuration) CaptionFontFamily(name string) *Configuration {
	if strings.TrimSpace(name) == "" {
		c.fail(invalidArgument("font family must not be empty"))
		return c
	}
	c.fontFamily = name
	return c
}

// Size sets the output size in pixels.
func (c *Configuration) Size(width, height int) *Configuration {
	if width <= 0 || height <= 0 {
		c.fail(invalidArgument("size must be positive, got %dx%d", width, height))
		return c
	}
	c.size = image.Pt(width, height)
	return c
}

// Type sets the symbology.
func (c *Configuration) Type(s Symbology) *Configuration {
	c.symbology = s
	return c
}

// CharacterSpacing toggles spreading the caption across the full width.
func (c *Configuration) CharacterSpacing(enabled bool) *Configuration {
	c.spacing = enabled
	return c
}

// Verify toggles decoding the rendered symbol and comparing it to the value.
func (c *Configuration) Verify(enabled bool) *Configuration {
	c.verify = enabled
	return c
}

// Fonts sets the registry used to resolve the caption font family.
func (c *Configuration) Fonts(r *FontRegistry) *Configuration {
	c.fonts = r
	return c
}

// captionText returns the effective caption; empty means absent.
func (c *Configuration) captionText() string {
	if c.captionSet {
		return c.caption
	}
	return c.value
}
