// Package imaging provides the pixel-level primitives used by the document
// detection pipeline.
//
// All transforms in this package are pure functions over stdlib image types:
// they never mutate their input and always allocate fresh output buffers with
// zero-origin bounds. Frames arrive as image.Image (any color model); working
// buffers are *image.RGBA for color operations and *image.Gray for the
// single-channel edge pipeline.
//
// # Pipeline Primitives
//
// The detection pipeline composes these transforms in order:
//
//  1. Grayscale: weighted luminance conversion (0.30 R + 0.59 G + 0.11 B)
//  2. GaussianBlur: noise suppression before gradient extraction
//  3. SobelEdges / CannyEdges: binary edge map extraction
//  4. OtsuThreshold + ToBinary: adaptive binarization where a fixed edge
//     threshold is not appropriate
//
// EnhanceDocument prepares a located document crop for authenticity analysis
// (contrast boost plus a light unsharp mask) and is applied after cropping,
// never to the full frame.
//
// # Error Handling
//
// The primitives themselves do not fail: a zero-area input is a programmer
// error and is rejected by the pipeline entry points before any primitive
// runs. Functions in this package that can fail (file loading, cropping
// outside bounds) return an explicit error.
package imaging
