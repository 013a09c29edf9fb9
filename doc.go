// Package barcodegen renders barcode symbols into raster images with an
// optional human-readable caption beneath them.
//
// A render is described with a chained builder and produced by one of the
// Generate methods:
//
//	img, err := barcodegen.NewBuilder("12345670").
//		Size(400, 200).
//		Type(barcodegen.Code128).
//		GenerateImage()
//
// The caption defaults to the encoded value. It is scaled to fill a band of
// one fifth of the image height, and by default its characters are spread
// with spaces so that the text spans the full width.
//
// Output images always have exactly the configured size.
package barcodegen
