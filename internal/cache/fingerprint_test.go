package cache

import (
	"image"
	"image/color"
	"testing"

	"github.com/veridoc/docscan/internal/imaging"
)

// createHalvesImage creates an image whose left half is dark and right half
// bright, a pattern whose cell means sit far from the global mean.
func createHalvesImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, color.RGBA{R: 10, G: 10, B: 10, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 240, G: 240, B: 240, A: 255})
			}
		}
	}
	return img
}

func TestFingerprint_Deterministic(t *testing.T) {
	img := createHalvesImage(64, 64)

	a := Fingerprint(img, DefaultGridSize)
	b := Fingerprint(img, DefaultGridSize)
	if a != b {
		t.Errorf("identical frames produced different fingerprints:\n%s\n%s", a, b)
	}
}

func TestFingerprint_Length(t *testing.T) {
	img := createHalvesImage(64, 64)

	for _, grid := range []int{8, 12, 16} {
		fp := Fingerprint(img, grid)
		if len(fp) != grid*grid {
			t.Errorf("grid %d: fingerprint length %d, want %d", grid, len(fp), grid*grid)
		}
		for i := 0; i < len(fp); i++ {
			if fp[i] != '0' && fp[i] != '1' {
				t.Fatalf("grid %d: non-binary character %q at index %d", grid, fp[i], i)
			}
		}
	}
}

func TestFingerprint_GridClamped(t *testing.T) {
	img := createHalvesImage(64, 64)

	if fp := Fingerprint(img, 2); len(fp) != MinGridSize*MinGridSize {
		t.Errorf("undersized grid not clamped: length %d", len(fp))
	}
	if fp := Fingerprint(img, 100); len(fp) != MaxGridSize*MaxGridSize {
		t.Errorf("oversized grid not clamped: length %d", len(fp))
	}
}

func TestFingerprint_StableUnderMildBlur(t *testing.T) {
	sharp := createHalvesImage(64, 64)
	blurred := imaging.GaussianBlur(imaging.Grayscale(sharp), 1.0)

	a := Fingerprint(sharp, DefaultGridSize)
	b := Fingerprint(blurred, DefaultGridSize)
	if a != b {
		t.Errorf("mild blur changed the fingerprint:\n%s\n%s", a, b)
	}
}

func TestFingerprint_DistinguishesScenes(t *testing.T) {
	halves := createHalvesImage(64, 64)

	flipped := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			flipped.Set(x, y, halves.At(63-x, y))
		}
	}

	if Fingerprint(halves, DefaultGridSize) == Fingerprint(flipped, DefaultGridSize) {
		t.Error("mirrored scene collided with the original")
	}
}
