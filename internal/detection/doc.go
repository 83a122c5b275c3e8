// Package detection locates the dominant document-shaped rectangle in a
// binary edge map.
//
// # Algorithm
//
// The locator performs a constrained sliding-window search:
//
//  1. Build an integral image over the edge map once per call, making every
//     rectangular edge-count query O(1) afterwards.
//  2. Enumerate candidate window heights from 20% of the short frame side up
//     to 90% of the frame height; the width of each window is fixed by the
//     configured target aspect ratio.
//  3. Slide each window across the frame in steps proportional to its size
//     and score it from two integral-image queries: edge density along the
//     window perimeter and edge density of the window interior.
//  4. Keep windows above the score floor, filter by aspect-ratio tolerance,
//     and sort descending by score. The first survivor is the chosen box.
//
// # Scoring
//
// Interior density alone cannot distinguish a document from a textured
// background: a wood table scores as well as a card. Perimeter density
// specifically rewards a closed, high-contrast boundary, which a printed
// card edge reliably produces under varied lighting. The combined score is
//
//	0.7*perimeterDensity + 0.3*(0.3 - |0.15 - interiorDensity|)
//
// so a strong boundary dominates while a plausible amount of interior
// texture (printed text, portrait, guilloche) adds a small bonus and both
// empty and saturated interiors are penalized.
//
// # Outcomes
//
// Finding no acceptable window is a valid negative outcome, reported as
// Found=false with a descriptive message, never as an error. Degenerate
// inputs (zero-area edge maps) are programmer errors and return an error.
package detection
