package barcodegen

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for an empty value, an empty font family or
// a non-positive size.
var ErrInvalidArgument = errors.New("invalid argument")

// Render stages reported in RenderError.
const (
	StageSymbology = "symbology"
	StageCaption   = "caption"
	StageEncode    = "encode"
	StageVerify    = "verify"
)

// RenderError reports the stage of a render that failed.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("barcodegen: %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
