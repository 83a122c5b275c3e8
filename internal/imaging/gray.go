package imaging

import (
	"image"
	"image/color"
)

// Luminance weights for grayscale conversion.
const (
	lumaRed   = 0.30
	lumaGreen = 0.59
	lumaBlue  = 0.11
)

// Grayscale converts an image to an 8-bit grayscale buffer.
//
// Each pixel becomes the weighted luminance 0.30*R + 0.59*G + 0.11*B.
// The returned buffer has zero-origin bounds matching the input dimensions;
// the input is never modified.
func Grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			v := lumaRed*float64(r>>8) + lumaGreen*float64(g>>8) + lumaBlue*float64(b>>8)
			out.SetGray(x, y, color.Gray{Y: clampByte(v)})
		}
	}
	return out
}

// AdjustBrightnessContrast applies a linear brightness/contrast remap.
//
// Both parameters range from -100 to 100, where 0 leaves the channel
// unchanged. The remap is the classic formula
//
//	out = factor*(in + brightness - 128) + 128
//
// with factor derived from the contrast parameter and the result clamped to
// [0, 255] per channel. Alpha is passed through untouched.
func AdjustBrightnessContrast(img image.Image, brightness, contrast float64) *image.RGBA {
	if brightness < -100 {
		brightness = -100
	} else if brightness > 100 {
		brightness = 100
	}
	if contrast < -100 {
		contrast = -100
	} else if contrast > 100 {
		contrast = 100
	}

	factor := (259.0 * (contrast + 255.0)) / (255.0 * (259.0 - contrast))

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			out.SetRGBA(x, y, color.RGBA{
				R: remapChannel(float64(r>>8), brightness, factor),
				G: remapChannel(float64(g>>8), brightness, factor),
				B: remapChannel(float64(b>>8), brightness, factor),
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

// remapChannel applies the brightness/contrast formula to one 8-bit channel.
func remapChannel(v, brightness, factor float64) uint8 {
	return clampByte(factor*(v+brightness-128.0) + 128.0)
}

// OtsuThreshold computes the optimal binarization threshold for a grayscale
// buffer using Otsu's method.
//
// The function scans all 256 histogram bins and returns the threshold that
// maximizes the between-class variance wB*wF*(mB-mF)^2. It returns the
// threshold only; callers apply it with ToBinary. The result is deterministic:
// calling it twice on the same buffer yields the same threshold.
func OtsuThreshold(gray *image.Gray) uint8 {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	var hist [256]int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	total := width * height
	var sumAll float64
	for i := 0; i < 256; i++ {
		sumAll += float64(i) * float64(hist[i])
	}

	var (
		sumB, wB  float64
		best      float64
		threshold uint8
	)
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])

		mB := sumB / wB
		mF := (sumAll - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			threshold = uint8(t)
		}
	}
	return threshold
}

// ToBinary binarizes a grayscale buffer at the given threshold.
//
// Pixels with value >= threshold become 255, all others 0. The output
// contains only the values {0, 255}.
func ToBinary(gray *image.Gray, threshold uint8) *image.Gray {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if gray.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y >= threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// clampByte constrains a float value to the range [0, 255] and rounds it.
func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
