package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/veridoc/docscan/internal/scan"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docscan.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	opts, file, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if opts != scan.DefaultOptions() {
		t.Errorf("options differ from defaults: %+v", opts)
	}
	if file.LogLevel != "info" || file.Language != "eng" {
		t.Errorf("file defaults = %q/%q, want info/eng", file.LogLevel, file.Language)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
ocr_language: deu
scan:
  detection_interval_ms: 250
  ticks_per_detect: 5
  enable_cache: false
  sensitivity: 0.8
  target_aspect_ratio: 1.42
`)

	opts, file, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if opts.DetectionInterval != 250*time.Millisecond {
		t.Errorf("DetectionInterval = %v, want 250ms", opts.DetectionInterval)
	}
	if opts.TicksPerDetect != 5 {
		t.Errorf("TicksPerDetect = %d, want 5", opts.TicksPerDetect)
	}
	if opts.EnableCache {
		t.Error("explicit enable_cache false was ignored")
	}
	if opts.Sensitivity != 0.8 {
		t.Errorf("Sensitivity = %v, want 0.8", opts.Sensitivity)
	}
	if opts.TargetAspectRatio != 1.42 {
		t.Errorf("TargetAspectRatio = %v, want 1.42", opts.TargetAspectRatio)
	}

	// Untouched fields keep their defaults.
	def := scan.DefaultOptions()
	if opts.TickInterval != def.TickInterval {
		t.Errorf("TickInterval = %v, want default %v", opts.TickInterval, def.TickInterval)
	}
	if opts.MaxImageDimension != def.MaxImageDimension {
		t.Errorf("MaxImageDimension = %d, want default %d", opts.MaxImageDimension, def.MaxImageDimension)
	}

	if file.LogLevel != "debug" || file.Language != "deu" {
		t.Errorf("file = %q/%q, want debug/deu", file.LogLevel, file.Language)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
scan:
  sensitivty: 0.8
`)

	if _, _, err := Load(path); err == nil {
		t.Error("expected error for misspelled key")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
scan:
  sensitivity: 1.5
`)

	if _, _, err := Load(path); err == nil {
		t.Error("expected error for out-of-range sensitivity")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
