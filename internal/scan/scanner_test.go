package scan

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

// createUniformFrame creates a featureless frame that should never produce
// a detection.
func createUniformFrame(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	return img
}

// createTexturedFrame creates a deterministic noisy frame so repeated
// detections exercise the fingerprint cache with a stable key.
func createTexturedFrame(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rng := rand.New(rand.NewSource(7))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(100 + rng.Intn(100))
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestNewScanner_FillsDefaults(t *testing.T) {
	s, err := NewScanner(Options{Sensitivity: 0.6}, nil)
	if err != nil {
		t.Fatalf("NewScanner failed: %v", err)
	}

	opts := s.Options()
	if opts.TickInterval <= 0 || opts.TicksPerDetect <= 0 || opts.DetectionInterval <= 0 {
		t.Errorf("scheduling defaults not filled: %+v", opts)
	}
	if opts.TargetAspectRatio <= 0 {
		t.Errorf("aspect ratio default not filled: %v", opts.TargetAspectRatio)
	}
}

func TestNewScanner_RejectsBadOptions(t *testing.T) {
	cases := []struct {
		name string
		opts Options
	}{
		{"sensitivity above one", Options{Sensitivity: 2}},
		{"negative sensitivity", Options{Sensitivity: -0.1}},
		{"cache enabled without capacity", Options{EnableCache: true}},
		{"inverted edge thresholds", Options{EdgeLowThreshold: 200, EdgeHighThreshold: 100}},
	}
	for _, tc := range cases {
		if _, err := NewScanner(tc.opts, nil); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestDetect_Preconditions(t *testing.T) {
	s, err := NewScanner(DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("NewScanner failed: %v", err)
	}

	if _, err := s.Detect(nil); err == nil {
		t.Error("expected error for nil frame")
	}
	if _, err := s.Detect(createUniformFrame(50, 50)); err == nil {
		t.Error("expected error for undersized frame")
	}

	// MinFrameSide exactly is usable.
	result, err := s.Detect(createUniformFrame(MinFrameSide, MinFrameSide))
	if err != nil {
		t.Fatalf("minimum-size frame rejected: %v", err)
	}
	if result.Success {
		t.Error("featureless frame should not produce a detection")
	}
}

func TestDetect_FeaturelessFrame(t *testing.T) {
	s, err := NewScanner(DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("NewScanner failed: %v", err)
	}

	result, err := s.Detect(createUniformFrame(640, 400))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if result.Success {
		t.Error("Success true for featureless frame")
	}
	if result.Cropped != nil {
		t.Error("Cropped must be nil without a detection")
	}
	if result.Message == "" {
		t.Error("negative outcome must carry a message")
	}
}

func TestDetect_CacheIsTransparent(t *testing.T) {
	opts := DefaultOptions()
	opts.EnableCache = true
	s, err := NewScanner(opts, nil)
	if err != nil {
		t.Fatalf("NewScanner failed: %v", err)
	}

	frame := createTexturedFrame(640, 400)

	first, err := s.Detect(frame)
	if err != nil {
		t.Fatalf("first Detect failed: %v", err)
	}
	second, err := s.Detect(frame)
	if err != nil {
		t.Fatalf("second Detect failed: %v", err)
	}

	if first.Success != second.Success ||
		first.Bounds != second.Bounds ||
		first.Confidence != second.Confidence ||
		first.Message != second.Message {
		t.Errorf("cached detection differs from fresh one:\n%+v\n%+v", first, second)
	}
}

func TestVerify_Preconditions(t *testing.T) {
	s, err := NewScanner(DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("NewScanner failed: %v", err)
	}

	if _, err := s.Verify(nil); err == nil {
		t.Error("expected error for nil crop")
	}
}

func TestVerify_ReusesCachedReport(t *testing.T) {
	opts := DefaultOptions()
	opts.EnableCache = true
	s, err := NewScanner(opts, nil)
	if err != nil {
		t.Fatalf("NewScanner failed: %v", err)
	}

	crop := createTexturedFrame(160, 100)

	first, err := s.Verify(crop)
	if err != nil {
		t.Fatalf("first Verify failed: %v", err)
	}
	second, err := s.Verify(crop)
	if err != nil {
		t.Fatalf("second Verify failed: %v", err)
	}

	if first != second {
		t.Error("second Verify of an identical crop should return the cached report")
	}
}

func TestVerify_UncachedStillDeterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.EnableCache = false
	s, err := NewScanner(opts, nil)
	if err != nil {
		t.Fatalf("NewScanner failed: %v", err)
	}

	crop := createTexturedFrame(160, 100)

	first, err := s.Verify(crop)
	if err != nil {
		t.Fatalf("first Verify failed: %v", err)
	}
	second, err := s.Verify(crop)
	if err != nil {
		t.Fatalf("second Verify failed: %v", err)
	}

	if first == second {
		t.Error("cache disabled but a shared report was returned")
	}
	if first.Confidence != second.Confidence || first.Authentic != second.Authentic {
		t.Errorf("verdicts differ for identical crops: %+v vs %+v", first, second)
	}
}
