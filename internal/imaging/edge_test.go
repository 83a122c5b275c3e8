package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createStepGray creates a grayscale image that is dark on the left half
// and light on the right half
func createStepGray(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := width / 2; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return img
}

// createOutlineGray draws a dark rectangle outline on a light background
func createOutlineGray(width, height, x1, y1, x2, y2 int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	for x := x1; x <= x2; x++ {
		img.SetGray(x, y1, color.Gray{Y: 0})
		img.SetGray(x, y2, color.Gray{Y: 0})
	}
	for y := y1; y <= y2; y++ {
		img.SetGray(x1, y, color.Gray{Y: 0})
		img.SetGray(x2, y, color.Gray{Y: 0})
	}
	return img
}

func TestSobelEdges_FindsStep(t *testing.T) {
	gray := createStepGray(40, 40)
	edges := SobelEdges(gray, 100)

	found := false
	for y := 1; y < 39 && !found; y++ {
		for x := 18; x <= 21; x++ {
			if edges.GrayAt(x, y).Y == 255 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no edge detected along the step boundary")
	}
}

func TestSobelEdges_BorderRingZero(t *testing.T) {
	gray := createStepGray(40, 40)
	edges := SobelEdges(gray, 50)

	for x := 0; x < 40; x++ {
		if edges.GrayAt(x, 0).Y != 0 || edges.GrayAt(x, 39).Y != 0 {
			t.Fatalf("border row pixel at x=%d is not zero", x)
		}
	}
	for y := 0; y < 40; y++ {
		if edges.GrayAt(0, y).Y != 0 || edges.GrayAt(39, y).Y != 0 {
			t.Fatalf("border column pixel at y=%d is not zero", y)
		}
	}
}

func TestCannyEdges_BinaryOutput(t *testing.T) {
	gray := createOutlineGray(80, 60, 15, 10, 65, 50)
	edges := CannyEdges(gray, 50, 150)

	onPixels := 0
	for y := 0; y < 60; y++ {
		for x := 0; x < 80; x++ {
			v := edges.GrayAt(x, y).Y
			if v != 0 && v != 255 {
				t.Fatalf("pixel (%d,%d) = %d, want 0 or 255", x, y, v)
			}
			if v == 255 {
				onPixels++
			}
		}
	}
	if onPixels == 0 {
		t.Error("no edges detected around rectangle outline")
	}
}

func TestCannyEdges_UniformFrameHasNoEdges(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 50, 50))
	edges := CannyEdges(gray, 50, 150)

	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if edges.GrayAt(x, y).Y != 0 {
				t.Fatalf("uniform frame produced edge at (%d,%d)", x, y)
			}
		}
	}
}
