package detection

import "image"

// IntegralImage is a prefix-sum transform over a binary edge map.
//
// Each cell holds the count of "on" (255) edge pixels in the rectangle from
// the origin to that cell, which makes any rectangular edge count an O(1)
// query via four lookups. The transform is built once per locator invocation
// and discarded with it.
type IntegralImage struct {
	width  int
	height int
	// sums is (width+1)*(height+1), padded with a zero row and column so
	// Sum needs no boundary special cases.
	sums []uint32
}

// NewIntegralImage builds the prefix sums for a binary edge map.
//
// Any pixel value above zero is counted as an edge pixel, so the input may
// be either a strict {0,255} map or any non-zero marking.
func NewIntegralImage(edges *image.Gray) *IntegralImage {
	bounds := edges.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	ii := &IntegralImage{
		width:  w,
		height: h,
		sums:   make([]uint32, (w+1)*(h+1)),
	}

	stride := w + 1
	for y := 0; y < h; y++ {
		var rowSum uint32
		for x := 0; x < w; x++ {
			if edges.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y > 0 {
				rowSum++
			}
			ii.sums[(y+1)*stride+(x+1)] = ii.sums[y*stride+(x+1)] + rowSum
		}
	}
	return ii
}

// Width returns the width of the underlying edge map.
func (ii *IntegralImage) Width() int { return ii.width }

// Height returns the height of the underlying edge map.
func (ii *IntegralImage) Height() int { return ii.height }

// Sum returns the number of edge pixels in the half-open rectangle
// [x1,x2) x [y1,y2). Coordinates are clamped to the map bounds, so callers
// may pass windows that touch the edges without adjustment.
func (ii *IntegralImage) Sum(x1, y1, x2, y2 int) uint32 {
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 > ii.width {
		x2 = ii.width
	}
	if y2 > ii.height {
		y2 = ii.height
	}
	if x1 >= x2 || y1 >= y2 {
		return 0
	}

	stride := ii.width + 1
	return ii.sums[y2*stride+x2] - ii.sums[y1*stride+x2] -
		ii.sums[y2*stride+x1] + ii.sums[y1*stride+x1]
}
