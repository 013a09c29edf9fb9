package testutil

import (
	"bytes"
	"fmt"
	"image"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

// darkThreshold separates ink from background on the red channel.
const darkThreshold = 128

// LoadImageFile decodes any image format registered with imaging.
func LoadImageFile(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// DecodeImage decodes encoded image bytes or fails the test.
func DecodeImage(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err, "Failed to decode image")
	return img
}

// IsDark reports whether the pixel at (x, y) is ink.
func IsDark(img image.Image, x, y int) bool {
	r, _, _, _ := img.At(x, y).RGBA()
	return r>>8 < darkThreshold
}

// Transitions counts ink/background changes along row y.
func Transitions(img image.Image, y int) int {
	b := img.Bounds()
	n := 0
	prev := IsDark(img, b.Min.X, y)
	for x := b.Min.X + 1; x < b.Max.X; x++ {
		cur := IsDark(img, x, y)
		if cur != prev {
			n++
		}
		prev = cur
	}
	return n
}

// InkBounds returns the smallest rectangle within r holding every dark
// pixel. It is empty when r has no ink.
func InkBounds(img image.Image, r image.Rectangle) image.Rectangle {
	r = r.Intersect(img.Bounds())
	ink := image.Rectangle{}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !IsDark(img, x, y) {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if ink.Empty() {
				ink = px
			} else {
				ink = ink.Union(px)
			}
		}
	}
	return ink
}

// HasInk reports whether r contains any dark pixel.
func HasInk(img image.Image, r image.Rectangle) bool {
	return !InkBounds(img, r).Empty()
}
