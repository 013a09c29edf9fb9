// Package barcode decodes rendered symbols back to their payload.
//
// It is used to verify generated images: a symbol that does not decode to
// the value it was rendered from is reported as ErrMismatch. Decoding is
// backed by gozxing; symbologies without a gozxing reader report
// ErrUnsupported.
package barcode
