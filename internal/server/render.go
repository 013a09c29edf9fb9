package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/barcodegen"
	"github.com/MeKo-Tech/barcodegen/internal/codec"
	"github.com/MeKo-Tech/barcodegen/internal/symbology"
)

// RenderRequest describes one barcode render over HTTP or WebSocket. Empty
// fields take the server defaults.
type RenderRequest struct {
	Value     string  `json:"value"`
	Caption   *string `json:"caption,omitempty"`
	NoCaption bool    `json:"no_caption,omitempty"`
	Font      string  `json:"font,omitempty"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	Type      string  `json:"type,omitempty"`
	Format    string  `json:"format,omitempty"`
	Spacing   *bool   `json:"spacing,omitempty"`
	Verify    *bool   `json:"verify,omitempty"`
	// Encoding "base64" answers with a JSON document instead of raw bytes.
	Encoding string `json:"encoding,omitempty"`
}

// rendered is an encoded image.
type rendered struct {
	data      []byte
	format    codec.Format
	symbology symbology.Type
	width     int
	height    int
}

// errBadRequest marks request errors detected before rendering.
var errBadRequest = errors.New("bad request")

// requestFromQuery reads a RenderRequest from URL query parameters.
func requestFromQuery(q url.Values) (RenderRequest, error) {
	req := RenderRequest{
		Value:    q.Get("value"),
		Font:     q.Get("font"),
		Type:     q.Get("type"),
		Format:   q.Get("format"),
		Encoding: q.Get("encoding"),
	}
	if q.Has("caption") {
		c := q.Get("caption")
		req.Caption = &c
	}

	var err error
	if req.Width, err = intParam(q, "width"); err != nil {
		return req, err
	}
	if req.Height, err = intParam(q, "height"); err != nil {
		return req, err
	}
	if req.NoCaption, err = boolParam(q, "no_caption"); err != nil {
		return req, err
	}
	if q.Has("spacing") {
		v, err := boolParam(q, "spacing")
		if err != nil {
			return req, err
		}
		req.Spacing = &v
	}
	if q.Has("verify") {
		v, err := boolParam(q, "verify")
		if err != nil {
			return req, err
		}
		req.Verify = &v
	}
	return req, nil
}

func intParam(q url.Values, key string) (int, error) {
	s := q.Get(key)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s: %q", errBadRequest, key, s)
	}
	return v, nil
}

func boolParam(q url.Values, key string) (bool, error) {
	s := q.Get(key)
	if s == "" {
		return q.Has(key), nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: invalid %s: %q", errBadRequest, key, s)
	}
	return v, nil
}

// render applies defaults, validates limits and renders req.
func (s *Server) render(req RenderRequest) (*rendered, error) {
	d := s.defaults

	typName := firstNonEmpty(req.Type, d.Symbology)
	typ, err := symbology.ParseType(typName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	format, err := codec.ParseFormat(firstNonEmpty(req.Format, d.Format))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}

	width, height := req.Width, req.Height
	if width == 0 {
		width = d.Width
	}
	if height == 0 {
		height = d.Height
	}
	if s.maxDimension > 0 && (width > s.maxDimension || height > s.maxDimension) {
		return nil, fmt.Errorf("%w: size %dx%d exceeds the limit of %d", errBadRequest, width, height, s.maxDimension)
	}

	spacing := d.Spacing
	if req.Spacing != nil {
		spacing = *req.Spacing
	}
	verify := d.Verify
	if req.Verify != nil {
		verify = *req.Verify
	}

	b := barcodegen.NewBuilder(req.Value).
		Fonts(s.fonts).
		CaptionFontFamily(firstNonEmpty(req.Font, d.Font)).
		Size(width, height).
		Type(typ).
		CharacterSpacing(spacing).
		Verify(verify)
	switch {
	case req.NoCaption:
		b.NoCaption()
	case req.Caption != nil:
		b.Caption(*req.Caption)
	}

	data, err := b.GenerateBytes(format)
	if err != nil {
		return nil, err
	}
	return &rendered{data: data, format: format, symbology: typ, width: width, height: height}, nil
}

// statusForError maps render errors to HTTP status codes.
func statusForError(err error) int {
	var re *barcodegen.RenderError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, barcodegen.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.As(err, &re) && (re.Stage == barcodegen.StageSymbology || re.Stage == barcodegen.StageVerify):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorType names an error class for metrics and WebSocket responses.
func errorType(err error) string {
	switch statusForError(err) {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusUnprocessableEntity:
		return "unencodable"
	default:
		return "render_error"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
