package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.Pipeline.MaxPages)
	assert.Equal(t, 300, cfg.Pipeline.DPI)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "tesseract", cfg.OCR.Binary)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }},
		{"zero max pages", func(c *Config) { c.Pipeline.MaxPages = 0 }},
		{"negative dpi", func(c *Config) { c.Pipeline.DPI = -1 }},
		{"quality above one", func(c *Config) { c.Pipeline.MinTextQuality = 1.5 }},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }},
		{"negative workers", func(c *Config) { c.Batch.Workers = -2 }},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }},
		{"weight out of range", func(c *Config) { c.Scoring.ProductCap = 1.2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestToPipelineConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pipeline.MaxPages = 5
	cfg.Pipeline.DPI = 150
	cfg.Cache.Enabled = false
	cfg.Batch.Workers = 3
	cfg.Pipeline.TemplateDir = "/tmp/templates"

	pc := cfg.ToPipelineConfig()
	assert.Equal(t, 5, pc.Raster.MaxPages)
	assert.Equal(t, 150, pc.Raster.DPI)
	assert.False(t, pc.UseCache)
	assert.Equal(t, 3, pc.Workers)
	assert.Equal(t, "/tmp/templates", pc.TemplateDir)
	assert.Equal(t, cfg.Scoring, pc.Weights)
}

func TestTesseractOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OCR.Language = "eng+hin"
	cfg.OCR.PSM = 4

	opts := cfg.TesseractOptions()
	assert.Equal(t, "tesseract", opts.Binary)
	assert.Equal(t, "eng+hin", opts.Language)
	assert.Equal(t, 4, opts.PSM)
}
