package authenticity

import (
	"image"
	"image/color"
	"math/rand"
	"reflect"
	"testing"
)

// createCardCrop creates a busy synthetic crop with colored regions and
// texture so every probe has pixel statistics to chew on.
func createCardCrop(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rng := rand.New(rand.NewSource(42))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			base := uint8(180 + rng.Intn(40))
			c := color.RGBA{R: base, G: base, B: base, A: 255}
			if x%9 < 2 {
				c = color.RGBA{R: 40, G: 60, B: uint8(150 + rng.Intn(80)), A: 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestAnalyze_RejectsBadCrops(t *testing.T) {
	a := NewAnalyzer(0.6)

	if _, err := a.Analyze(nil); err == nil {
		t.Error("expected error for nil crop")
	}
	if _, err := a.Analyze(image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("expected error for zero-area crop")
	}
}

func TestAnalyze_ProbeOrderIsStable(t *testing.T) {
	a := NewAnalyzer(0.6)
	crop := createCardCrop(160, 100)

	want := []string{"ink-distribution", "micro-pattern", "optical-variable", "intaglio-texture", "latent-image"}
	for run := 0; run < 3; run++ {
		report, err := a.Analyze(crop)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if len(report.Probes) != len(want) {
			t.Fatalf("got %d probe results, want %d", len(report.Probes), len(want))
		}
		for i, r := range report.Probes {
			if r.Name != want[i] {
				t.Errorf("run %d: probe %d is %q, want %q", run, i, r.Name, want[i])
			}
		}
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := NewAnalyzer(0.6)
	crop := createCardCrop(160, 100)

	first, err := a.Analyze(crop)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	second, err := a.Analyze(crop)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if first.Confidence != second.Confidence {
		t.Errorf("confidence differs across runs: %.4f vs %.4f", first.Confidence, second.Confidence)
	}
	if !reflect.DeepEqual(first.Probes, second.Probes) {
		t.Errorf("probe results differ across runs:\n%+v\n%+v", first.Probes, second.Probes)
	}
	if !reflect.DeepEqual(first.DetectedFeatures, second.DetectedFeatures) {
		t.Errorf("detected features differ across runs: %v vs %v", first.DetectedFeatures, second.DetectedFeatures)
	}
}

func TestAnalyze_PanickingProbeIsAbsorbed(t *testing.T) {
	a := &Analyzer{
		sensitivity: 0.6,
		probes: []probe{
			{name: "steady", run: func(*cropView) Result {
				return Result{Name: "steady", Confidence: 0.8}
			}},
			{name: "flaky", run: func(*cropView) Result {
				panic("probe blew up")
			}},
		},
	}

	report, err := a.Analyze(createCardCrop(80, 50))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(report.Probes) != 2 {
		t.Fatalf("got %d probe results, want 2", len(report.Probes))
	}

	flaky := report.Probes[1]
	if flaky.Name != "flaky" || flaky.Detected || flaky.Confidence != 0 {
		t.Errorf("panicking probe result = %+v, want zero-confidence miss", flaky)
	}
	if steady := report.Probes[0]; !steady.Detected {
		t.Errorf("healthy probe result lost: %+v", steady)
	}
}

func TestFuse_Thresholds(t *testing.T) {
	results := []Result{
		{Name: "ink-distribution", Confidence: 0.9},
		{Name: "micro-pattern", Confidence: 0.8},
		{Name: "optical-variable", Confidence: 0.3},
		{Name: "intaglio-texture", Confidence: 0.2},
		{Name: "latent-image", Confidence: 0.1},
	}
	// Mean confidence is 0.46 with two detected features.

	strict := Fuse(results, 0.5)
	if strict.Authentic {
		t.Error("verdict authentic despite overall confidence below sensitivity")
	}
	if len(strict.DetectedFeatures) != 2 {
		t.Errorf("detected %d features, want 2", len(strict.DetectedFeatures))
	}

	lenient := Fuse(results, 0.4)
	if !lenient.Authentic {
		t.Error("verdict not authentic despite sufficient confidence and features")
	}
	if lenient.Confidence < 0.459 || lenient.Confidence > 0.461 {
		t.Errorf("fused confidence = %.4f, want 0.46", lenient.Confidence)
	}
}

func TestFuse_RequiresMinimumFeatures(t *testing.T) {
	results := []Result{
		{Name: "ink-distribution", Confidence: 1.0},
		{Name: "micro-pattern", Confidence: 0.4},
		{Name: "optical-variable", Confidence: 0.4},
		{Name: "intaglio-texture", Confidence: 0.4},
		{Name: "latent-image", Confidence: 0.4},
	}
	// Mean is 0.52 but only one probe clears the detection floor.

	report := Fuse(results, 0.5)
	if report.Authentic {
		t.Error("single detected feature must not yield an authentic verdict")
	}
	if len(report.DetectedFeatures) != 1 {
		t.Errorf("detected %d features, want 1", len(report.DetectedFeatures))
	}
}

func TestFuse_DetectionFloorIsStrict(t *testing.T) {
	results := []Result{{Name: "ink-distribution", Confidence: DetectionFloor}}

	report := Fuse(results, 0.5)
	if len(report.DetectedFeatures) != 0 {
		t.Error("confidence exactly at the floor must not count as detected")
	}
}

func TestFuse_EmptyBattery(t *testing.T) {
	report := Fuse(nil, 0.5)
	if report.Authentic {
		t.Error("empty battery must not be authentic")
	}
	if report.Confidence != 0 {
		t.Errorf("confidence = %.4f, want 0", report.Confidence)
	}
	if report.Message == "" {
		t.Error("verdict must carry a message")
	}
}

func TestProbes_ConfidenceInUnitRange(t *testing.T) {
	a := NewAnalyzer(0.6)

	crops := []image.Image{
		createCardCrop(160, 100),
		image.NewRGBA(image.Rect(0, 0, 40, 25)),
	}
	for i, crop := range crops {
		report, err := a.Analyze(crop)
		if err != nil {
			t.Fatalf("crop %d: Analyze failed: %v", i, err)
		}
		for _, r := range report.Probes {
			if r.Confidence < 0 || r.Confidence > 1 {
				t.Errorf("crop %d: probe %s confidence %.4f outside [0,1]", i, r.Name, r.Confidence)
			}
		}
		if report.Confidence < 0 || report.Confidence > 1 {
			t.Errorf("crop %d: overall confidence %.4f outside [0,1]", i, report.Confidence)
		}
	}
}
