// Package ocr wraps the external text-recognition engine (Tesseract via
// gosseract) behind the narrow collaborator boundary the pipeline needs:
// give it a cropped document region, get recognized field strings back.
//
// The pipeline does not retry or cache on the engine's behalf; recognition
// failures surface as errors to the caller. Requires the Tesseract native
// library at build and run time (CGO).
package ocr
