// Package server exposes the scan pipeline as a line-oriented JSON service
// over stdin/stdout.
//
// Each request is one JSON object per line with an id, a method and
// method-specific params; each response echoes the id with either a result
// or an error object. The protocol is deliberately minimal: it exists so a
// host process (demo UI, capture shim, test harness) can drive detection
// and verification against frames it addresses by file path, without
// linking the pipeline in-process.
//
// Supported methods:
//
//   - ping: liveness check
//   - document_detect: locate the document region in an image file
//   - document_verify: locate, then run authenticity analysis on the crop
//   - document_read_fields: locate, then run text recognition on the crop
package server
