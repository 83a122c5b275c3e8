package imaging

import (
	"image"
	"image/color"
	"math"
)

// GaussianBlur applies a Gaussian blur with the given standard deviation.
//
// The kernel size is derived from sigma as max(3, 2*floor(3*sigma)+1), which
// covers three standard deviations on each side. Kernel weights are
// normalized so a uniform input remains uniform. Border pixels use clamped
// (replicated) edge sampling.
//
// Sigma values <= 0 are treated as 1.0.
func GaussianBlur(gray *image.Gray, sigma float64) *image.Gray {
	if sigma <= 0 {
		sigma = 1.0
	}

	size := 2*int(3*sigma) + 1
	if size < 3 {
		size = 3
	}
	half := size / 2

	kernel := make([][]float64, size)
	var sum float64
	for ky := 0; ky < size; ky++ {
		kernel[ky] = make([]float64, size)
		for kx := 0; kx < size; kx++ {
			dx := float64(kx - half)
			dy := float64(ky - half)
			w := math.Exp(-(dx*dx + dy*dy) / (2 * sigma * sigma))
			kernel[ky][kx] = w
			sum += w
		}
	}
	for ky := 0; ky < size; ky++ {
		for kx := 0; kx < size; kx++ {
			kernel[ky][kx] /= sum
		}
	}

	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var acc float64
			for ky := -half; ky <= half; ky++ {
				for kx := -half; kx <= half; kx++ {
					py := clamp(y+ky, 0, height-1) + bounds.Min.Y
					px := clamp(x+kx, 0, width-1) + bounds.Min.X
					acc += float64(gray.GrayAt(px, py).Y) * kernel[ky+half][kx+half]
				}
			}
			out.SetGray(x, y, color.Gray{Y: clampByte(acc)})
		}
	}
	return out
}
