package detection

import (
	"image"
	"image/color"
	"testing"
)

// createPatternEdges creates a deterministic sparse edge map
func createPatternEdges(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x*7+y*3)%5 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// bruteCount counts on-pixels in [x1,x2) x [y1,y2) directly
func bruteCount(edges *image.Gray, x1, y1, x2, y2 int) uint32 {
	var n uint32
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			if edges.GrayAt(x, y).Y > 0 {
				n++
			}
		}
	}
	return n
}

func TestIntegralImage_MatchesBruteForce(t *testing.T) {
	edges := createPatternEdges(37, 29)
	ii := NewIntegralImage(edges)

	rects := [][4]int{
		{0, 0, 37, 29},
		{0, 0, 1, 1},
		{5, 7, 20, 15},
		{10, 0, 37, 12},
		{36, 28, 37, 29},
	}
	for _, r := range rects {
		want := bruteCount(edges, r[0], r[1], r[2], r[3])
		got := ii.Sum(r[0], r[1], r[2], r[3])
		if got != want {
			t.Errorf("Sum(%d,%d,%d,%d) = %d, want %d", r[0], r[1], r[2], r[3], got, want)
		}
	}
}

func TestIntegralImage_ClampsAndEmpty(t *testing.T) {
	edges := createPatternEdges(10, 10)
	ii := NewIntegralImage(edges)

	if got, want := ii.Sum(-5, -5, 20, 20), bruteCount(edges, 0, 0, 10, 10); got != want {
		t.Errorf("clamped full sum = %d, want %d", got, want)
	}
	if got := ii.Sum(5, 5, 5, 9); got != 0 {
		t.Errorf("empty rectangle sum = %d, want 0", got)
	}
	if got := ii.Sum(8, 8, 2, 2); got != 0 {
		t.Errorf("inverted rectangle sum = %d, want 0", got)
	}
}
