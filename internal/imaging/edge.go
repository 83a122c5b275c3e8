package imaging

import (
	"image"
	"image/color"
	"math"
)

// sobelX and sobelY are the standard 3x3 Sobel gradient kernels.
var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// SobelEdges extracts a binary edge map using the Sobel operator.
//
// Gradient magnitude sqrt(gx^2 + gy^2) is computed per pixel and binarized at
// the given threshold: magnitudes >= threshold become 255, all others 0. The
// one-pixel border ring is always 0 because the 3x3 kernels cannot be
// evaluated there without extrapolation.
//
// Typical thresholds are 40-80 for camera frames; lower values admit more
// texture, higher values keep only strong boundaries.
func SobelEdges(gray *image.Gray, threshold float64) *image.Gray {
	mag, _ := sobelGradients(gray)

	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if mag[y*width+x] >= threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// CannyEdges performs Canny edge detection on a grayscale buffer.
//
// The output is a binary edge map (values {0, 255}) with edges thinned to
// one-pixel width.
//
// # Algorithm
//
//  1. Gaussian blur (sigma 1.4) to suppress sensor noise
//  2. Sobel gradients: magnitude and direction per pixel
//  3. Non-maximum suppression along the gradient direction, quantized to
//     four buckets (0, 45, 90, 135 degrees)
//  4. Hysteresis: a stack-based flood from every strong pixel (>= high)
//     keeps weak pixels (>= low) that are 8-connected to a strong seed;
//     everything else is discarded
//
// Thresholds are expressed on the 0-255 magnitude scale. Recommended
// starting points are low=50, high=150 for well-lit frames.
func CannyEdges(gray *image.Gray, low, high float64) *image.Gray {
	blurred := GaussianBlur(gray, 1.4)
	mag, dir := sobelGradients(blurred)

	bounds := blurred.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Non-maximum suppression: keep a pixel only if it is a local maximum
	// along its quantized gradient direction.
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			m := mag[y*width+x]
			if m == 0 {
				continue
			}

			var n1, n2 float64
			switch quantizeDirection(dir[y*width+x]) {
			case 0: // horizontal gradient, compare left/right
				n1 = mag[y*width+x-1]
				n2 = mag[y*width+x+1]
			case 45:
				n1 = mag[(y-1)*width+x+1]
				n2 = mag[(y+1)*width+x-1]
			case 90: // vertical gradient, compare up/down
				n1 = mag[(y-1)*width+x]
				n2 = mag[(y+1)*width+x]
			default: // 135
				n1 = mag[(y-1)*width+x-1]
				n2 = mag[(y+1)*width+x+1]
			}

			if m >= n1 && m >= n2 {
				suppressed[y*width+x] = m
			}
		}
	}

	// Hysteresis by flood from strong seeds. Weak pixels survive only when
	// reachable from a strong pixel through 8-connected weak neighbors.
	out := image.NewGray(image.Rect(0, 0, width, height))
	visited := make([]bool, width*height)
	stack := make([]image.Point, 0, 256)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			idx := y*width + x
			if suppressed[idx] < high || visited[idx] {
				continue
			}

			stack = append(stack[:0], image.Pt(x, y))
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				if p.X < 1 || p.X >= width-1 || p.Y < 1 || p.Y >= height-1 {
					continue
				}
				pi := p.Y*width + p.X
				if visited[pi] || suppressed[pi] < low {
					continue
				}
				visited[pi] = true
				out.SetGray(p.X, p.Y, color.Gray{Y: 255})

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						stack = append(stack, image.Pt(p.X+dx, p.Y+dy))
					}
				}
			}
		}
	}
	return out
}

// sobelGradients computes per-pixel gradient magnitude and direction.
//
// Both slices are row-major width*height. Border pixels have zero magnitude.
func sobelGradients(gray *image.Gray) (mag, dir []float64) {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	mag = make([]float64, width*height)
	dir = make([]float64, width*height)

	at := func(x, y int) float64 {
		return float64(gray.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y)
	}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := at(x+kx, y+ky)
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			mag[y*width+x] = math.Sqrt(gx*gx + gy*gy)
			dir[y*width+x] = math.Atan2(gy, gx)
		}
	}
	return mag, dir
}

// quantizeDirection buckets a gradient angle (radians) into 0, 45, 90 or 135.
func quantizeDirection(angle float64) int {
	deg := angle * 180 / math.Pi
	if deg < 0 {
		deg += 180
	}
	switch {
	case deg < 22.5 || deg >= 157.5:
		return 0
	case deg < 67.5:
		return 45
	case deg < 112.5:
		return 90
	default:
		return 135
	}
}
