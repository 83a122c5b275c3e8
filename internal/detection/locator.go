package detection

import (
	"fmt"
	"image"
	"math"
	"sort"
)

// Search tuning constants. Window geometry is proportional to frame and
// window size so the search cost stays near-linear in frame area.
const (
	minWindowHeight   = 20   // absolute floor for candidate height, px
	minHeightFrac     = 0.2  // smallest candidate height vs short frame side
	maxHeightFrac     = 0.9  // largest candidate height vs frame height
	maxWidthFrac      = 0.9  // widest candidate vs frame width
	heightStepFrac    = 0.05 // height enumeration step vs current height
	slideStepFrac     = 0.1  // slide step vs window dimension
	minSlideStep      = 2    // px
	perimeterWeight   = 0.7
	interiorWeight    = 0.3
	interiorIdeal     = 0.15 // edge density of a typical printed card face
	interiorBandWidth = 0.3
)

// Candidate is one scored window from the rectangle search.
type Candidate struct {
	// X, Y is the top-left corner of the window in edge-map coordinates.
	X int `json:"x"`
	Y int `json:"y"`

	// Width and Height are the window dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Score combines perimeter and interior edge density (0.0 to 1.0).
	Score float64 `json:"score"`
}

// Bounds returns the candidate window as an image.Rectangle.
func (c Candidate) Bounds() image.Rectangle {
	return image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height)
}

// Corners returns the four window corners in clockwise order starting from
// the top-left.
func (c Candidate) Corners() [4]image.Point {
	return [4]image.Point{
		{X: c.X, Y: c.Y},
		{X: c.X + c.Width, Y: c.Y},
		{X: c.X + c.Width, Y: c.Y + c.Height},
		{X: c.X, Y: c.Y + c.Height},
	}
}

// Result holds the outcome of one rectangle search.
type Result struct {
	// Found reports whether any candidate survived scoring and filtering.
	Found bool `json:"found"`

	// Best is the top-scoring candidate. Nil when Found is false.
	Best *Candidate `json:"best,omitempty"`

	// Candidates lists all surviving candidates, best first.
	Candidates []Candidate `json:"candidates,omitempty"`

	// Message describes a negative outcome in human-readable form.
	Message string `json:"message,omitempty"`
}

// Locator performs the sliding-window document search over edge maps.
//
// A Locator is immutable after construction and safe for concurrent use;
// all per-call state lives on the stack of Locate.
type Locator struct {
	// TargetAspect is the expected width/height ratio of the document.
	// ID-1 format cards (85.6 x 54 mm) have an aspect of roughly 1.58.
	TargetAspect float64

	// AspectTolerance is the allowed deviation of a candidate's actual
	// width/height ratio from TargetAspect.
	AspectTolerance float64

	// ScoreFloor is the minimum combined score for a window to be kept.
	ScoreFloor float64
}

// NewLocator returns a Locator for the given target aspect ratio with the
// default tolerance band (0.2) and score floor (0.4). Non-positive aspect
// ratios fall back to the ID-1 card ratio.
func NewLocator(targetAspect float64) *Locator {
	if targetAspect <= 0 {
		targetAspect = 1.58
	}
	return &Locator{
		TargetAspect:    targetAspect,
		AspectTolerance: 0.2,
		ScoreFloor:      0.4,
	}
}

// Locate searches a binary edge map for the best document-shaped rectangle.
//
// The returned Result is Found=false with an explanatory message when no
// window beats the score floor; that is a valid outcome, not an error.
// A zero-area edge map is a precondition violation and returns an error.
func (l *Locator) Locate(edges *image.Gray) (*Result, error) {
	bounds := edges.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("cannot locate in zero-area edge map (%dx%d)", width, height)
	}

	ii := NewIntegralImage(edges)

	minSide := width
	if height < minSide {
		minSide = height
	}
	hMin := int(minHeightFrac * float64(minSide))
	if hMin < minWindowHeight {
		hMin = minWindowHeight
	}
	hMax := int(maxHeightFrac * float64(height))

	var kept []Candidate
	for h := hMin; h <= hMax; h += heightStep(h) {
		w := int(math.Round(float64(h) * l.TargetAspect))
		if w > int(maxWidthFrac*float64(width)) || w < 3 || h < 3 {
			continue
		}

		stepX := slideStep(w)
		stepY := slideStep(h)

		for y := 0; y+h <= height; y += stepY {
			for x := 0; x+w <= width; x += stepX {
				score := l.scoreWindow(ii, x, y, w, h)
				if score > l.ScoreFloor {
					kept = append(kept, Candidate{X: x, Y: y, Width: w, Height: h, Score: score})
				}
			}
		}
	}

	// Aspect filter. Widths are derived from heights, but integer rounding
	// at small sizes can push the realized ratio outside the band.
	filtered := kept[:0]
	for _, c := range kept {
		ratio := float64(c.Width) / float64(c.Height)
		if math.Abs(ratio-l.TargetAspect) <= l.AspectTolerance {
			filtered = append(filtered, c)
		}
	}

	if len(filtered) == 0 {
		return &Result{
			Found:   false,
			Message: "no document-shaped region found in frame",
		}, nil
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})

	best := filtered[0]
	return &Result{
		Found:      true,
		Best:       &best,
		Candidates: filtered,
	}, nil
}

// scoreWindow computes the combined perimeter/interior score of one window
// using four O(1) integral-image queries for the perimeter and one for the
// interior.
func (l *Locator) scoreWindow(ii *IntegralImage, x, y, w, h int) float64 {
	top := ii.Sum(x, y, x+w, y+1)
	bottom := ii.Sum(x, y+h-1, x+w, y+h)
	left := ii.Sum(x, y+1, x+1, y+h-1)
	right := ii.Sum(x+w-1, y+1, x+w, y+h-1)

	perimeterPixels := 2*w + 2*(h-2)
	perimeterDensity := float64(top+bottom+left+right) / float64(perimeterPixels)

	interior := ii.Sum(x+1, y+1, x+w-1, y+h-1)
	interiorArea := (w - 2) * (h - 2)
	interiorDensity := float64(interior) / float64(interiorArea)

	interiorScore := interiorBandWidth - math.Abs(interiorIdeal-interiorDensity)
	return perimeterWeight*perimeterDensity + interiorWeight*interiorScore
}

// heightStep returns the height enumeration increment for the current
// candidate height.
func heightStep(h int) int {
	step := int(heightStepFrac * float64(h))
	if step < minSlideStep {
		step = minSlideStep
	}
	return step
}

// slideStep returns the window slide increment for a window dimension.
func slideStep(dim int) int {
	step := int(slideStepFrac * float64(dim))
	if step < minSlideStep {
		step = minSlideStep
	}
	return step
}
