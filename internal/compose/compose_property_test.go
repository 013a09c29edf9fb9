package compose

import (
	"image"
	"testing"

	"github.com/MeKo-Tech/barcodegen/internal/symbology"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
)

// TestRender_ExactSize verifies the output always has the requested size and
// the band sits flush at the bottom.
func TestRender_ExactSize(t *testing.T) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		t.Fatal(err)
	}
	r, err := symbology.Get(symbology.Code128)
	if err != nil {
		t.Fatal(err)
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("output is exactly w x h", prop.ForAll(
		func(value string, w, h int, withCaption bool) bool {
			text := ""
			if withCaption {
				text = value
			}
			res, err := Render(Request{
				Value:    value,
				Caption:  text,
				Font:     f,
				Size:     image.Pt(w, h),
				Renderer: r,
				Spacing:  true,
			})
			if err != nil {
				return false
			}
			if res.Image.Bounds() != image.Rect(0, 0, w, h) {
				return false
			}
			if !withCaption {
				return res.CaptionRect.Empty()
			}
			return res.CaptionRect.Max.Y == h && res.CaptionRect.Dy() == BandHeight(h)
		},
		gen.RegexMatch(`[A-Z0-9]{1,10}`),
		gen.IntRange(300, 600),
		gen.IntRange(40, 200),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
