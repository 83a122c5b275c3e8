// Package authenticity scores whether a located document region exhibits
// the physical security features expected of a genuine document.
//
// Five independent probes each analyze the enhanced crop and return a
// (name, detected, confidence) triple:
//
//   - ink-distribution: blue-channel histogram structure and the spatial
//     placement of blue-dominant ink
//   - micro-pattern: density of tiny connected edge components and
//     high-frequency edge transitions (microprint, guilloche)
//   - optical-variable: hue diversity among saturated pixels (OVI shifts
//     hue with viewing angle, leaving multiple hue families in one frame)
//   - intaglio-texture: local gradient-variance statistics of engraved
//     printing
//   - latent-image: faint ghost-pattern contrast in the portrait-echo
//     region
//
// The probes are deterministic image statistics; none consult randomness.
// Their individual confidences are fused into a single verdict: a probe
// counts as detected above 0.5 confidence, overall confidence is the mean
// over all five probes, and the document is authentic only when the overall
// confidence clears the configured sensitivity AND at least two features
// were detected. A probe that panics counts as not-detected with zero
// confidence; one broken probe never aborts the analysis.
package authenticity
