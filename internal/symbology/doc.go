// Package symbology maps a symbology tag to a renderer that turns a payload
// into a black-on-white barcode raster.
//
// Renderers never compose captions or encode containers. They report the
// canvas they want through PrintMetrics and produce a raster of exactly that
// canvas through Draw.
package symbology
