package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Crop extracts a rectangular region from an image.
//
// The region must lie entirely within the image bounds and have positive
// area; otherwise an error is returned and no crop is performed. The result
// is an independent buffer: mutating it never affects the source frame.
func Crop(img image.Image, r image.Rectangle) (image.Image, error) {
	bounds := img.Bounds()
	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, bounds)
	}
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return nil, fmt.Errorf("invalid crop region %v: zero or negative area", r)
	}
	return imaging.Crop(img, r), nil
}
