// Package config loads and validates application configuration from files,
// environment variables, and defaults.
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/invoscan/invoscan/internal/ocr"
	"github.com/invoscan/invoscan/internal/pipeline"
	"github.com/invoscan/invoscan/internal/rasterize"
	"github.com/invoscan/invoscan/internal/score"
	"github.com/invoscan/invoscan/internal/textextract"
)

// DefaultConfig returns the configuration with all defaults applied.
func DefaultConfig() *Config {
	raster := rasterize.DefaultOptions()
	return &Config{
		LogLevel: "info",
		Pipeline: PipelineConfig{
			MaxPages:       raster.MaxPages,
			DPI:            raster.DPI,
			MinTextQuality: textextract.DefaultMinQuality,
		},
		OCR: OCRConfig{
			Binary:   ocr.DefaultBinary,
			Language: ocr.DefaultLanguage,
			PSM:      ocr.DefaultPSM,
		},
		Cache: CacheConfig{
			Enabled:       true,
			TTL:           30 * time.Minute,
			MemoryEntries: 1024,
		},
		Scoring: score.DefaultWeights(),
		Batch: BatchConfig{
			Workers: runtime.NumCPU(),
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}

// validLogLevels are the accepted log_level values.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validFormats are the accepted output formats.
var validFormats = map[string]bool{
	"json": true,
	"text": true,
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q (debug, info, warn, error)", c.LogLevel)
	}
	if c.Pipeline.MaxPages <= 0 {
		return fmt.Errorf("pipeline.max_pages must be positive, got %d", c.Pipeline.MaxPages)
	}
	if c.Pipeline.DPI <= 0 {
		return fmt.Errorf("pipeline.dpi must be positive, got %d", c.Pipeline.DPI)
	}
	if c.Pipeline.MinTextQuality <= 0 || c.Pipeline.MinTextQuality > 1 {
		return fmt.Errorf("pipeline.min_text_quality must be in (0,1], got %g", c.Pipeline.MinTextQuality)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative, got %d", c.Batch.Workers)
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format %q (json, text)", c.Output.Format)
	}
	for name, v := range map[string]float64{
		"scoring.agreement_boost": c.Scoring.AgreementBoost,
		"scoring.format_penalty":  c.Scoring.FormatPenalty,
		"scoring.product_step":    c.Scoring.ProductStep,
		"scoring.product_cap":     c.Scoring.ProductCap,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %g", name, v)
		}
	}
	return nil
}

// ToPipelineConfig converts the loaded configuration into the pipeline's
// native config struct.
func (c *Config) ToPipelineConfig() pipeline.Config {
	return pipeline.Config{
		Raster: rasterize.Options{
			MaxPages: c.Pipeline.MaxPages,
			DPI:      c.Pipeline.DPI,
		},
		MinTextQuality: c.Pipeline.MinTextQuality,
		UseCache:       c.Cache.Enabled,
		CacheTTL:       c.Cache.TTL,
		Weights:        c.Scoring,
		Workers:        c.Batch.Workers,
		TemplateDir:    c.Pipeline.TemplateDir,
	}
}

// TesseractOptions converts the OCR section into engine options.
func (c *Config) TesseractOptions() ocr.TesseractOptions {
	return ocr.TesseractOptions{
		Binary:   c.OCR.Binary,
		Language: c.OCR.Language,
		PSM:      c.OCR.PSM,
	}
}
