// Package scan orchestrates the document detection and verification
// pipeline.
//
// Scanner wires the pixel primitives, rectangle locator, authenticity
// analyzer and fingerprint caches into two synchronous entry points
// (Detect, Verify) and one duty-cycled loop (StartLoop) that pulls frames
// from a FrameSource, throttles the expensive pipeline, and hands one
// result per completed cycle to a callback. Errors inside a cycle are
// reported through a separate callback and answered with a fixed backoff,
// never with a permanent stop.
package scan
