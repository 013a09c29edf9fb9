package barcodegen

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuilder_Defaults(t *testing.T) {
	c := NewBuilder("12345670")
	require.NoError(t, c.Err())

	assert.Equal(t, "12345670", c.captionText())
	assert.Equal(t, DefaultFontFamily, c.fontFamily)
	assert.Equal(t, image.Pt(200, 100), c.size)
	assert.Equal(t, Code128, c.symbology)
	assert.True(t, c.spacing)
	assert.False(t, c.verify)
}

func TestNewBuilder_EmptyValue(t *testing.T) {
	c := NewBuilder("")
	assert.ErrorIs(t, c.Err(), ErrInvalidArgument)

	img, err := c.GenerateImage()
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Nil(t, img)

	data, err := c.GenerateBytes(PNG)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Nil(t, data)

	s, err := c.GenerateImageString(PNG)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, s)
}

func TestSetters_InvalidArguments(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Configuration)
	}{
		{"empty font", func(c *Configuration) { c.CaptionFontFamily("") }},
		{"blank font", func(c *Configuration) { c.CaptionFontFamily("  ") }},
		{"zero width", func(c *Configuration) { c.Size(0, 10) }},
		{"negative height", func(c *Configuration) { c.Size(10, -1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewBuilder("ABC")
			tt.apply(c)
			assert.ErrorIs(t, c.Err(), ErrInvalidArgument)
			_, err := c.GenerateImage()
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestSetters_FirstErrorWins(t *testing.T) {
	c := NewBuilder("ABC").Size(0, 0).CaptionFontFamily("")
	require.Error(t, c.Err())
	assert.Contains(t, c.Err().Error(), "size")
}

func TestSetters_Chain(t *testing.T) {
	c := NewBuilder("ABC").
		Caption("label").
		CaptionFontFamily("Arial").
		Size(300, 150).
		Type(QR).
		CharacterSpacing(false).
		Verify(true)

	require.NoError(t, c.Err())
	assert.Equal(t, "label", c.captionText())
	assert.Equal(t, "Arial", c.fontFamily)
	assert.Equal(t, image.Pt(300, 150), c.size)
	assert.Equal(t, QR, c.symbology)
	assert.False(t, c.spacing)
	assert.True(t, c.verify)
}

func TestCaption_Absent(t *testing.T) {
	assert.Empty(t, NewBuilder("ABC").Caption("").captionText())
	assert.Empty(t, NewBuilder("ABC").NoCaption().captionText())
}

func TestParseHelpers(t *testing.T) {
	s, err := ParseSymbology("qr")
	require.NoError(t, err)
	assert.Equal(t, QR, s)

	f, err := ParseFormat("jpg")
	require.NoError(t, err)
	assert.Equal(t, JPEG, f)

	assert.Len(t, Symbologies(), 11)
	assert.Len(t, Formats(), 6)
}
