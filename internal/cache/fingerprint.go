// Package cache provides perceptual fingerprinting of frames and a bounded
// LRU for pipeline results keyed by those fingerprints.
package cache

import (
	"image"

	"github.com/disintegration/imaging"
)

// Fingerprint grid bounds. An 8x8 grid (64 bits) is enough to separate
// distinct scenes while letting visually near-identical frames collide,
// which is exactly what cache keying wants.
const (
	MinGridSize     = 8
	MaxGridSize     = 16
	DefaultGridSize = 8
)

// Fingerprint computes a compact perceptual hash of a frame.
//
// The frame is downsampled to gridSize x gridSize with box averaging,
// converted to grayscale, and compared cell-by-cell against the grid mean:
// each cell emits '1' if its gray value is at or above the mean, '0'
// otherwise. The result is a gridSize^2-character binary string.
//
// Two identical frames always produce identical fingerprints. A steady hand
// holding a card produces frames that differ only by sensor noise, which box
// averaging absorbs, so such frames collide with high probability. That
// collision is the point: it lets the detector reuse a previous cycle's
// result instead of re-running the pipeline.
//
// Grid sizes outside [MinGridSize, MaxGridSize] are clamped.
func Fingerprint(img image.Image, gridSize int) string {
	if gridSize < MinGridSize {
		gridSize = MinGridSize
	} else if gridSize > MaxGridSize {
		gridSize = MaxGridSize
	}

	small := imaging.Resize(img, gridSize, gridSize, imaging.Box)
	gray := imaging.Grayscale(small)

	cells := make([]uint8, 0, gridSize*gridSize)
	var sum int
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			v := gray.NRGBAAt(x, y).R
			cells = append(cells, v)
			sum += int(v)
		}
	}
	mean := uint8(sum / len(cells))

	bits := make([]byte, len(cells))
	for i, v := range cells {
		if v >= mean {
			bits[i] = '1'
		} else {
			bits[i] = '0'
		}
	}
	return string(bits)
}
