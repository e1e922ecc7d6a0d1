package config

import (
	"time"

	"github.com/invoscan/invoscan/internal/score"
)

// Config represents the complete configuration for the invoscan application.
// It covers all commands (process, batch, templates) and supports loading
// from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Pipeline configuration
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`

	// OCR engine configuration
	OCR OCRConfig `mapstructure:"ocr" yaml:"ocr" json:"ocr"`

	// Cache configuration
	Cache CacheConfig `mapstructure:"cache" yaml:"cache" json:"cache"`

	// Scoring weights
	Scoring score.Weights `mapstructure:"scoring" yaml:"scoring" json:"scoring"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// PipelineConfig contains per-document processing settings.
type PipelineConfig struct {
	MaxPages       int     `mapstructure:"max_pages" yaml:"max_pages" json:"max_pages"`
	DPI            int     `mapstructure:"dpi" yaml:"dpi" json:"dpi"`
	MinTextQuality float64 `mapstructure:"min_text_quality" yaml:"min_text_quality" json:"min_text_quality"`
	TemplateDir    string  `mapstructure:"template_dir" yaml:"template_dir" json:"template_dir"`
}

// OCRConfig contains tesseract engine settings.
type OCRConfig struct {
	Binary   string `mapstructure:"binary" yaml:"binary" json:"binary"`
	Language string `mapstructure:"language" yaml:"language" json:"language"`
	PSM      int    `mapstructure:"psm" yaml:"psm" json:"psm"`
}

// CacheConfig contains intermediate-result cache settings. When RedisAddr is
// empty the bounded in-memory store is used.
type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	TTL           time.Duration `mapstructure:"ttl" yaml:"ttl" json:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr" yaml:"redis_addr" json:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" yaml:"redis_password" json:"-"`
	RedisDB       int           `mapstructure:"redis_db" yaml:"redis_db" json:"redis_db"`
	MemoryEntries int           `mapstructure:"memory_entries" yaml:"memory_entries" json:"memory_entries"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers   int  `mapstructure:"workers" yaml:"workers" json:"workers"`
	Recursive bool `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
}

// OutputConfig contains result output settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
	Dir    string `mapstructure:"dir" yaml:"dir" json:"dir"`
}
