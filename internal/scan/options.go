package scan

import (
	"fmt"
	"time"
)

// Options configures a Scanner and its detection loop.
type Options struct {
	// DetectionInterval is the minimum wall-clock spacing between detection
	// cycles in the loop.
	DetectionInterval time.Duration

	// TickInterval is the scheduling tick of the loop. Every tick requests
	// a frame; only duty-cycled ticks run the pipeline.
	TickInterval time.Duration

	// TicksPerDetect runs the pipeline after this many ticks even if
	// DetectionInterval has not elapsed; whichever condition is met first
	// wins.
	TicksPerDetect int

	// BackoffDelay is how long the loop pauses after a cycle error before
	// trying again.
	BackoffDelay time.Duration

	// MaxImageDimension caps the frame size fed to the pipeline; larger
	// frames are downscaled for detection and results are mapped back to
	// the original frame. Zero disables the cap.
	MaxImageDimension int

	// EnableCache turns the fingerprint-keyed result caches on.
	EnableCache bool

	// CacheSize is the per-cache entry capacity when caching is enabled.
	CacheSize int

	// Sensitivity is the authenticity confidence threshold (0-1).
	Sensitivity float64

	// TargetAspectRatio is the expected document width/height ratio.
	TargetAspectRatio float64

	// EdgeLowThreshold and EdgeHighThreshold are the Canny hysteresis
	// thresholds used on the detection path.
	EdgeLowThreshold  float64
	EdgeHighThreshold float64

	// FingerprintGrid is the perceptual-hash grid size (8-16).
	FingerprintGrid int
}

// DefaultOptions returns the options used when a caller configures nothing:
// a 500 ms duty cycle over 100 ms ticks, caching on, and ID-1 card geometry.
func DefaultOptions() Options {
	return Options{
		DetectionInterval: 500 * time.Millisecond,
		TickInterval:      100 * time.Millisecond,
		TicksPerDetect:    3,
		BackoffDelay:      time.Second,
		MaxImageDimension: 1280,
		EnableCache:       true,
		CacheSize:         32,
		Sensitivity:       0.6,
		TargetAspectRatio: 1.58,
		EdgeLowThreshold:  50,
		EdgeHighThreshold: 150,
		FingerprintGrid:   8,
	}
}

// Validate checks option ranges that cannot be silently corrected.
func (o Options) Validate() error {
	if o.Sensitivity < 0 || o.Sensitivity > 1 {
		return fmt.Errorf("sensitivity must be in [0,1], got %v", o.Sensitivity)
	}
	if o.TargetAspectRatio <= 0 {
		return fmt.Errorf("target aspect ratio must be positive, got %v", o.TargetAspectRatio)
	}
	if o.EnableCache && o.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive when caching is enabled, got %d", o.CacheSize)
	}
	if o.EdgeLowThreshold < 0 || o.EdgeHighThreshold < o.EdgeLowThreshold {
		return fmt.Errorf("edge thresholds must satisfy 0 <= low <= high, got low=%v high=%v",
			o.EdgeLowThreshold, o.EdgeHighThreshold)
	}
	return nil
}

// withDefaults fills zero-valued scheduling fields so a partially specified
// Options still drives a working loop.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.DetectionInterval <= 0 {
		o.DetectionInterval = def.DetectionInterval
	}
	if o.TickInterval <= 0 {
		o.TickInterval = def.TickInterval
	}
	if o.TicksPerDetect <= 0 {
		o.TicksPerDetect = def.TicksPerDetect
	}
	if o.BackoffDelay <= 0 {
		o.BackoffDelay = def.BackoffDelay
	}
	if o.TargetAspectRatio <= 0 {
		o.TargetAspectRatio = def.TargetAspectRatio
	}
	if o.EdgeLowThreshold <= 0 {
		o.EdgeLowThreshold = def.EdgeLowThreshold
	}
	if o.EdgeHighThreshold <= 0 {
		o.EdgeHighThreshold = def.EdgeHighThreshold
	}
	if o.FingerprintGrid <= 0 {
		o.FingerprintGrid = def.FingerprintGrid
	}
	return o
}
