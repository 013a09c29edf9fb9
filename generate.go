package barcodegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/MeKo-Tech/barcodegen/internal/barcode"
	"github.com/MeKo-Tech/barcodegen/internal/codec"
	"github.com/MeKo-Tech/barcodegen/internal/compose"
	"github.com/MeKo-Tech/barcodegen/internal/fonts"
	"github.com/MeKo-Tech/barcodegen/internal/symbology"
	"golang.org/x/image/font/opentype"
)

// GenerateImage renders the barcode and its caption.
func (c *Configuration) GenerateImage() (image.Image, error) {
	res, err := c.render()
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}

// GenerateBytes renders and encodes the image.
func (c *Configuration) GenerateBytes(f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.WriteTo(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateImageString renders and encodes the image as standard base64.
func (c *Configuration) GenerateImageString(f Format) (string, error) {
	data, err := c.GenerateBytes(f)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// WriteTo renders the image and writes it to w in format f. Nothing is
// written when rendering fails.
func (c *Configuration) WriteTo(w io.Writer, f Format) error {
	res, err := c.render()
	if err != nil {
		return err
	}
	if err := codec.Encode(w, res.Image, f); err != nil {
		return &RenderError{Stage: StageEncode, Err: err}
	}
	return nil
}

func (c *Configuration) render() (*compose.Result, error) {
	if c.err != nil {
		return nil, c.err
	}
	cfg := *c

	renderer, err := symbology.Get(cfg.symbology)
	if err != nil {
		return nil, &RenderError{Stage: StageSymbology, Err: err}
	}

	text := cfg.captionText()
	var fnt *opentype.Font
	if text != "" {
		registry := cfg.fonts
		if registry == nil {
			registry = fonts.Default()
		}
		fnt, _, err = registry.Lookup(cfg.fontFamily)
		if err != nil {
			return nil, &RenderError{Stage: StageCaption, Err: err}
		}
	}

	res, err := compose.Render(compose.Request{
		Value:    cfg.value,
		Caption:  text,
		Font:     fnt,
		Size:     cfg.size,
		Renderer: renderer,
		Spacing:  cfg.spacing,
	})
	if err != nil {
		var se *compose.StageError
		if errors.As(err, &se) {
			return nil, &RenderError{Stage: se.Stage, Err: se.Err}
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	if cfg.verify {
		if err := verify(res, cfg.symbology, cfg.value); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func verify(res *compose.Result, t Symbology, value string) error {
	if !barcode.Supported(t) {
		slog.Debug("no decoder for symbology, skipping verification", "symbology", t.String())
		return nil
	}
	symbol := res.Image.SubImage(res.BarcodeRect)
	if err := barcode.Verify(context.Background(), barcode.NewBackend(), symbol, t, value); err != nil {
		return &RenderError{Stage: StageVerify, Err: err}
	}
	return nil
}
