package batch

import (
	"fmt"
	"runtime"
)

// Config controls a batch run.
type Config struct {
	// Workers bounds parallel document processing.
	Workers int

	// Recursive descends into subdirectories of directory arguments.
	Recursive bool

	// IncludePatterns and ExcludePatterns filter discovered files by base
	// name, e.g. "INV-*.pdf". Exclusion wins.
	IncludePatterns []string
	ExcludePatterns []string

	// Format selects the result rendering: "json" or "text".
	Format string

	// OutputDir, when set, additionally writes one JSON record per
	// successfully processed document.
	OutputDir string

	// ShowProgress renders a console progress bar.
	ShowProgress bool
	Quiet        bool
}

// DefaultConfig returns batch defaults.
func DefaultConfig() *Config {
	return &Config{
		Workers: runtime.NumCPU(),
		Format:  "json",
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid format %q (json, text)", c.Format)
	}
	return nil
}
