// Package batch turns file and directory arguments into a parallel pipeline
// run and renders the results for the CLI.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/invoscan/invoscan/internal/invoice"
	"github.com/invoscan/invoscan/internal/pipeline"
)

// Result carries the outcome of one batch run.
type Result struct {
	Items    []invoice.BatchItem
	Paths    []string
	Duration time.Duration
	Failed   int
}

// Run discovers PDF files from the arguments and processes them on the
// given pipeline. Per-document failures are carried in the items, not
// returned; discovery problems and an empty file set are errors.
func Run(ctx context.Context, p *pipeline.Pipeline, args []string, cfg *Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	files, err := DiscoverPDFFiles(args, cfg.Recursive, cfg.IncludePatterns, cfg.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("discover PDF files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no PDF files found")
	}

	start := time.Now()
	items := p.ProcessBatchContext(ctx, files)
	duration := time.Since(start)

	result := &Result{
		Items:    items,
		Paths:    files,
		Duration: duration,
	}
	for _, item := range items {
		if item.Err != nil {
			result.Failed++
		}
	}

	if cfg.OutputDir != "" {
		if err := SaveRecords(items, cfg.OutputDir); err != nil {
			return result, err
		}
	}
	return result, nil
}

// SaveRecords writes one pretty-printed JSON file per successful record,
// named after the source document.
func SaveRecords(items []invoice.BatchItem, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, item := range items {
		if item.Record == nil {
			continue
		}
		raw, err := item.Record.MarshalIndented()
		if err != nil {
			return fmt.Errorf("marshal record for %s: %w", item.Filename, err)
		}
		name := strings.TrimSuffix(item.Filename, filepath.Ext(item.Filename)) + ".json"
		if err := os.WriteFile(filepath.Join(dir, name), raw, 0o600); err != nil {
			return fmt.Errorf("write record for %s: %w", item.Filename, err)
		}
	}
	return nil
}
