// Package config loads docscan configuration from YAML files, layering
// file values over built-in defaults.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/veridoc/docscan/internal/scan"
)

// File is the on-disk configuration shape.
//
// Durations are expressed in milliseconds so the YAML stays plain integers.
// Zero-valued fields keep their defaults; booleans use pointers so an
// explicit "false" is distinguishable from "not set".
type File struct {
	LogLevel string `yaml:"log_level"`
	Language string `yaml:"ocr_language"`

	Scan struct {
		DetectionIntervalMs int      `yaml:"detection_interval_ms"`
		TickIntervalMs      int      `yaml:"tick_interval_ms"`
		TicksPerDetect      int      `yaml:"ticks_per_detect"`
		BackoffDelayMs      int      `yaml:"backoff_delay_ms"`
		MaxImageDimension   int      `yaml:"max_image_dimension"`
		EnableCache         *bool    `yaml:"enable_cache"`
		CacheSize           int      `yaml:"cache_size"`
		Sensitivity         *float64 `yaml:"sensitivity"`
		TargetAspectRatio   float64  `yaml:"target_aspect_ratio"`
		EdgeLowThreshold    float64  `yaml:"edge_low_threshold"`
		EdgeHighThreshold   float64  `yaml:"edge_high_threshold"`
		FingerprintGrid     int      `yaml:"fingerprint_grid"`
	} `yaml:"scan"`
}

// Load reads a YAML config file and converts it to scan options.
//
// An empty path returns pure defaults. Unknown keys are rejected so typos
// fail loudly instead of silently keeping a default.
func Load(path string) (scan.Options, *File, error) {
	opts := scan.DefaultOptions()
	file := &File{LogLevel: "info", Language: "eng"}

	if path == "" {
		return opts, file, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, nil, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(file); err != nil {
		return opts, nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if file.LogLevel == "" {
		file.LogLevel = "info"
	}
	if file.Language == "" {
		file.Language = "eng"
	}

	s := file.Scan
	if s.DetectionIntervalMs > 0 {
		opts.DetectionInterval = time.Duration(s.DetectionIntervalMs) * time.Millisecond
	}
	if s.TickIntervalMs > 0 {
		opts.TickInterval = time.Duration(s.TickIntervalMs) * time.Millisecond
	}
	if s.TicksPerDetect > 0 {
		opts.TicksPerDetect = s.TicksPerDetect
	}
	if s.BackoffDelayMs > 0 {
		opts.BackoffDelay = time.Duration(s.BackoffDelayMs) * time.Millisecond
	}
	if s.MaxImageDimension > 0 {
		opts.MaxImageDimension = s.MaxImageDimension
	}
	if s.EnableCache != nil {
		opts.EnableCache = *s.EnableCache
	}
	if s.CacheSize > 0 {
		opts.CacheSize = s.CacheSize
	}
	if s.Sensitivity != nil {
		opts.Sensitivity = *s.Sensitivity
	}
	if s.TargetAspectRatio > 0 {
		opts.TargetAspectRatio = s.TargetAspectRatio
	}
	if s.EdgeLowThreshold > 0 {
		opts.EdgeLowThreshold = s.EdgeLowThreshold
	}
	if s.EdgeHighThreshold > 0 {
		opts.EdgeHighThreshold = s.EdgeHighThreshold
	}
	if s.FingerprintGrid > 0 {
		opts.FingerprintGrid = s.FingerprintGrid
	}

	if err := opts.Validate(); err != nil {
		return opts, nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return opts, file, nil
}
