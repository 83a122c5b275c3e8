package authenticity

import (
	"fmt"
	"image"
	"image/draw"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/veridoc/docscan/internal/imaging"
)

// DetectionFloor is the confidence above which a probe counts as detected.
const DetectionFloor = 0.5

// MinDetectedFeatures is the number of detected features required for an
// authentic verdict, independent of overall confidence.
const MinDetectedFeatures = 2

// Result is one probe's verdict.
type Result struct {
	// Name identifies the probe (e.g. "ink-distribution").
	Name string `json:"name"`

	// Detected reports whether the probe's confidence cleared DetectionFloor.
	Detected bool `json:"detected"`

	// Confidence is the probe's certainty that its feature is present (0-1).
	Confidence float64 `json:"confidence"`
}

// Report is the fused outcome of a full authenticity analysis.
type Report struct {
	// Authentic is true only when Confidence >= the analyzer sensitivity
	// AND at least MinDetectedFeatures probes detected their feature.
	Authentic bool `json:"authentic"`

	// Confidence is the mean confidence across all probes, detected or not.
	Confidence float64 `json:"confidence"`

	// DetectedFeatures lists the names of detected probes in fixed probe
	// order, so repeated analyses of the same crop are comparable.
	DetectedFeatures []string `json:"detected_features"`

	// Message is a human-readable summary of the verdict.
	Message string `json:"message"`

	// ProcessingTime is the wall-clock duration of the analysis.
	ProcessingTime time.Duration `json:"processing_time"`

	// Probes holds the individual probe results in fixed order.
	Probes []Result `json:"probes"`
}

// probeFunc analyzes a prepared crop view and returns a verdict.
type probeFunc func(view *cropView) Result

// probe pairs a stable name with its analysis function. The name doubles as
// the Result name when the function panics and no Result is produced.
type probe struct {
	name string
	run  probeFunc
}

// Analyzer runs the probe battery over enhanced document crops.
//
// An Analyzer is immutable after construction and safe for concurrent use.
type Analyzer struct {
	sensitivity float64
	probes      []probe
}

// NewAnalyzer creates an Analyzer with the standard five probes.
//
// Sensitivity is the overall-confidence threshold for an authentic verdict
// and is clamped to [0, 1].
func NewAnalyzer(sensitivity float64) *Analyzer {
	if sensitivity < 0 {
		sensitivity = 0
	} else if sensitivity > 1 {
		sensitivity = 1
	}
	return &Analyzer{
		sensitivity: sensitivity,
		probes: []probe{
			{name: "ink-distribution", run: probeInkDistribution},
			{name: "micro-pattern", run: probeMicroPattern},
			{name: "optical-variable", run: probeOpticalVariable},
			{name: "intaglio-texture", run: probeIntaglioTexture},
			{name: "latent-image", run: probeLatentImage},
		},
	}
}

// Sensitivity returns the configured overall-confidence threshold.
func (a *Analyzer) Sensitivity() float64 { return a.sensitivity }

// Analyze runs all probes over the crop and fuses their results.
//
// The probes execute concurrently but their results are joined into a fixed,
// deterministic order before fusion, so DetectedFeatures ordering is stable
// across runs. A nil or zero-area crop is a precondition violation and
// returns an error.
func (a *Analyzer) Analyze(crop image.Image) (*Report, error) {
	if crop == nil {
		return nil, fmt.Errorf("cannot analyze nil crop")
	}
	bounds := crop.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("cannot analyze zero-area crop (%dx%d)", bounds.Dx(), bounds.Dy())
	}

	start := time.Now()
	view := newCropView(crop)

	results := make([]Result, len(a.probes))
	var g errgroup.Group
	for i, p := range a.probes {
		i, p := i, p
		g.Go(func() error {
			defer func() {
				// A panicking probe is a transient failure of that probe
				// only; it must not abort the analysis.
				if r := recover(); r != nil {
					results[i] = Result{Name: p.name, Detected: false, Confidence: 0}
				}
			}()
			results[i] = p.run(view)
			return nil
		})
	}
	_ = g.Wait() // probe errors are absorbed above; Wait only joins

	report := Fuse(results, a.sensitivity)
	report.ProcessingTime = time.Since(start)
	return report, nil
}

// Fuse combines probe results into a single verdict.
//
// Only probes with confidence strictly above DetectionFloor count as
// detected. Overall confidence is the mean over all results, not just the
// detected ones, so a battery of weak probes cannot launder a verdict
// through a single strong one.
func Fuse(results []Result, sensitivity float64) *Report {
	var (
		sum      float64
		detected []string
	)
	probes := make([]Result, len(results))
	for i, r := range results {
		r.Detected = r.Confidence > DetectionFloor
		probes[i] = r
		sum += r.Confidence
		if r.Detected {
			detected = append(detected, r.Name)
		}
	}

	var confidence float64
	if len(results) > 0 {
		confidence = sum / float64(len(results))
	}

	authentic := confidence >= sensitivity && len(detected) >= MinDetectedFeatures

	var message string
	switch {
	case authentic:
		message = fmt.Sprintf("document appears authentic: %d security features verified", len(detected))
	case len(detected) > 0:
		message = fmt.Sprintf("only %d security feature(s) detected with low overall confidence; document may be suspicious", len(detected))
	default:
		message = "no security features detected"
	}

	return &Report{
		Authentic:        authentic,
		Confidence:       confidence,
		DetectedFeatures: detected,
		Message:          message,
		Probes:           probes,
	}
}

// cropView is the shared, read-only preparation of a crop that every probe
// consumes. Precomputing it once avoids five redundant grayscale passes.
type cropView struct {
	rgba   *image.RGBA
	gray   *image.Gray
	width  int
	height int
}

func newCropView(crop image.Image) *cropView {
	bounds := crop.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), crop, bounds.Min, draw.Src)

	return &cropView{
		rgba:   rgba,
		gray:   imaging.Grayscale(rgba),
		width:  bounds.Dx(),
		height: bounds.Dy(),
	}
}
