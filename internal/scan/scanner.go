package scan

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/veridoc/docscan/internal/authenticity"
	"github.com/veridoc/docscan/internal/cache"
	"github.com/veridoc/docscan/internal/detection"
	"github.com/veridoc/docscan/internal/imaging"
)

// MinFrameSide is the smallest frame dimension the pipeline accepts.
// Anything smaller cannot hold a usable document region and is a
// precondition violation rather than a no-detection outcome.
const MinFrameSide = 100

// DetectionResult is the outcome of one detection cycle.
//
// A DetectionResult is never mutated after creation. Cropped is the only
// field that retains pixel data beyond the cycle; everything else is
// geometry and metadata.
type DetectionResult struct {
	// Success reports whether a document-shaped region was located.
	Success bool `json:"success"`

	// Bounds is the located region in original-frame coordinates.
	// Zero when Success is false.
	Bounds image.Rectangle `json:"bounds"`

	// Corners are the four region corners, clockwise from top-left.
	Corners [4]image.Point `json:"corners"`

	// Cropped is the enhanced document region, ready for authenticity
	// analysis or OCR. Nil when Success is false.
	Cropped image.Image `json:"-"`

	// Confidence is the locator score of the chosen region (0-1).
	Confidence float64 `json:"confidence"`

	// Message describes the outcome in human-readable form.
	Message string `json:"message"`
}

// cachedDetection is the fingerprint-cached portion of a detection result.
//
// Geometry is stored as frame-relative fractions, never pixel data: on a
// cache hit the crop is re-derived from the current frame, so the cached
// entry can outlive the frame buffer that produced it.
type cachedDetection struct {
	found      bool
	fx1, fy1   float64
	fx2, fy2   float64
	confidence float64
	message    string
}

// Scanner runs the document detection and verification pipeline.
//
// A Scanner owns the only state shared across cycles, the two fingerprint
// caches, and is safe for use from the single loop goroutine plus direct
// synchronous calls.
type Scanner struct {
	opts     Options
	locator  *detection.Locator
	analyzer *authenticity.Analyzer
	detCache *cache.ResultCache[cachedDetection]
	verCache *cache.ResultCache[*authenticity.Report]
	log      *logrus.Logger
}

// NewScanner creates a Scanner from the given options.
//
// The logger may be nil, in which case logging is discarded.
func NewScanner(opts Options, log *logrus.Logger) (*Scanner, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scan options: %w", err)
	}

	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}

	s := &Scanner{
		opts:     opts,
		locator:  detection.NewLocator(opts.TargetAspectRatio),
		analyzer: authenticity.NewAnalyzer(opts.Sensitivity),
		log:      log,
	}

	if opts.EnableCache {
		detCache, err := cache.NewResultCache[cachedDetection](opts.CacheSize)
		if err != nil {
			return nil, err
		}
		verCache, err := cache.NewResultCache[*authenticity.Report](opts.CacheSize)
		if err != nil {
			return nil, err
		}
		s.detCache = detCache
		s.verCache = verCache
	}
	return s, nil
}

// Options returns the scanner's effective options.
func (s *Scanner) Options() Options { return s.opts }

// Detect locates the document region in a single frame.
//
// The frame is optionally downscaled to MaxImageDimension for the pixel
// pipeline; the returned geometry is always in original-frame coordinates
// and the crop is taken from the original frame. Frames smaller than
// MinFrameSide on either side are a precondition violation and return an
// error. Finding no document is a Success=false result, not an error.
func (s *Scanner) Detect(frame image.Image) (*DetectionResult, error) {
	if frame == nil {
		return nil, fmt.Errorf("cannot detect in nil frame")
	}
	fb := frame.Bounds()
	if fb.Dx() < MinFrameSide || fb.Dy() < MinFrameSide {
		return nil, fmt.Errorf("frame %dx%d below minimum usable size %dpx", fb.Dx(), fb.Dy(), MinFrameSide)
	}

	working := imaging.Downscale(frame, s.opts.MaxImageDimension)

	// Fingerprint lookup strictly precedes the expensive pipeline.
	var key string
	if s.detCache != nil {
		key = cache.Fingerprint(working, s.opts.FingerprintGrid)
		if entry, ok := s.detCache.Get(key); ok {
			s.log.WithField("fingerprint", key[:16]).Debug("detection cache hit")
			return s.resultFromCache(frame, entry)
		}
	}

	gray := imaging.Grayscale(working)
	edges := imaging.CannyEdges(gray, s.opts.EdgeLowThreshold, s.opts.EdgeHighThreshold)

	located, err := s.locator.Locate(edges)
	if err != nil {
		return nil, fmt.Errorf("rectangle search failed: %w", err)
	}

	wb := working.Bounds()
	entry := cachedDetection{found: located.Found}
	if located.Found {
		b := located.Best
		entry.fx1 = float64(b.X) / float64(wb.Dx())
		entry.fy1 = float64(b.Y) / float64(wb.Dy())
		entry.fx2 = float64(b.X+b.Width) / float64(wb.Dx())
		entry.fy2 = float64(b.Y+b.Height) / float64(wb.Dy())
		entry.confidence = clamp01(b.Score)
		entry.message = "document located"
	} else {
		entry.message = located.Message
	}

	result, err := s.resultFromCache(frame, entry)
	if err != nil {
		return nil, err
	}

	// The result is cached only after it is fully computed.
	if s.detCache != nil {
		s.detCache.Set(key, entry)
	}
	return result, nil
}

// resultFromCache materializes a DetectionResult against the current frame.
//
// This is the cache-correctness invariant from the design: cached geometry
// is reusable but the buffer that produced it may be gone, so the crop is
// always re-derived from the frame in hand.
func (s *Scanner) resultFromCache(frame image.Image, entry cachedDetection) (*DetectionResult, error) {
	if !entry.found {
		return &DetectionResult{Success: false, Message: entry.message}, nil
	}

	fb := frame.Bounds()
	rect := image.Rect(
		fb.Min.X+int(entry.fx1*float64(fb.Dx())),
		fb.Min.Y+int(entry.fy1*float64(fb.Dy())),
		fb.Min.X+int(entry.fx2*float64(fb.Dx())),
		fb.Min.Y+int(entry.fy2*float64(fb.Dy())),
	).Intersect(fb)

	crop, err := imaging.Crop(frame, rect)
	if err != nil {
		return nil, fmt.Errorf("failed to crop located region: %w", err)
	}

	return &DetectionResult{
		Success: true,
		Bounds:  rect,
		Corners: [4]image.Point{
			rect.Min,
			{X: rect.Max.X, Y: rect.Min.Y},
			rect.Max,
			{X: rect.Min.X, Y: rect.Max.Y},
		},
		Cropped:    imaging.EnhanceDocument(crop),
		Confidence: entry.confidence,
		Message:    entry.message,
	}, nil
}

// Verify runs the authenticity analysis over a document crop.
//
// Calls are cached by the crop's fingerprint: a perceptually identical crop
// returns the previously fused report without re-running the probes.
func (s *Scanner) Verify(crop image.Image) (*authenticity.Report, error) {
	if crop == nil {
		return nil, fmt.Errorf("cannot verify nil crop")
	}

	var key string
	if s.verCache != nil {
		key = cache.Fingerprint(crop, s.opts.FingerprintGrid)
		if report, ok := s.verCache.Get(key); ok {
			s.log.WithField("fingerprint", key[:16]).Debug("verification cache hit")
			return report, nil
		}
	}

	report, err := s.analyzer.Analyze(crop)
	if err != nil {
		return nil, err
	}

	if s.verCache != nil {
		s.verCache.Set(key, report)
	}
	return report, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
