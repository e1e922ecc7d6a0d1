// Package pipeline wires the extraction stages into one per-document state
// machine and runs batches on a bounded worker pool.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"github.com/invoscan/invoscan/internal/cache"
	"github.com/invoscan/invoscan/internal/extract"
	"github.com/invoscan/invoscan/internal/invoice"
	"github.com/invoscan/invoscan/internal/rasterize"
	"github.com/invoscan/invoscan/internal/score"
	"github.com/invoscan/invoscan/internal/template"
	"github.com/invoscan/invoscan/internal/textextract"
)

// Config holds pipeline configuration across all stages.
type Config struct {
	Raster         rasterize.Options
	MinTextQuality float64
	UseCache       bool
	CacheTTL       time.Duration
	Weights        score.Weights
	// Workers bounds batch parallelism (0 = number of CPU cores; OCR is
	// CPU-bound so more workers than cores buys nothing).
	Workers int
	// TemplateDir optionally adds custom layout templates on top of the
	// built-ins.
	TemplateDir string
}

// DefaultConfig returns defaults for all stages.
func DefaultConfig() Config {
	return Config{
		Raster:         rasterize.DefaultOptions(),
		MinTextQuality: textextract.DefaultMinQuality,
		UseCache:       true,
		CacheTTL:       30 * time.Minute,
		Weights:        score.DefaultWeights(),
		Workers:        runtime.NumCPU(),
	}
}

// Pipeline processes PDF invoices into extraction records. It holds no
// per-document state; one Pipeline is safe for concurrent use across a
// batch.
type Pipeline struct {
	cfg      Config
	raster   *rasterize.Rasterizer
	texts    *textextract.Extractor
	registry *template.Registry
	fields   *extract.Extractor
	scorer   *score.Scorer
	store    cache.Store
	metrics  *Metrics
	progress ProgressCallback
}

// Registry exposes the template registry for diagnostics commands.
func (p *Pipeline) Registry() *template.Registry { return p.registry }

// Close releases the cache backend.
func (p *Pipeline) Close() error {
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}

// Process runs the full pipeline on one document.
func (p *Pipeline) Process(path string) (*invoice.ExtractionRecord, error) {
	return p.ProcessContext(context.Background(), path)
}

// ProcessContext runs the full pipeline on one document. The context is
// honored between stages and between pages, never mid-stage. Only an
// unreadable document fails; every other condition degrades to a partial,
// lower-confidence record.
func (p *Pipeline) ProcessContext(ctx context.Context, path string) (*invoice.ExtractionRecord, error) {
	start := time.Now()
	stage := StageReceived

	fail := func(err error) (*invoice.ExtractionRecord, error) {
		stage = StageFailed
		p.metrics.countDocument("failed")
		return nil, err
	}
	advance := func(next Stage, began time.Time) {
		if !stage.CanAdvance(next) {
			// Stage order is fixed at compile time; reaching this means a
			// programming error, not bad input.
			slog.Error("illegal stage transition", "from", stage, "to", next)
		}
		stage = next
		p.metrics.observeStage(next, time.Since(began))
	}

	var fingerprint string
	if p.cfg.UseCache && p.store != nil {
		fp, err := cache.Fingerprint(path)
		if err != nil {
			slog.Warn("fingerprint failed, processing without cache", "file", path, "error", err)
		} else {
			fingerprint = fp
		}
	}

	stageStart := time.Now()
	raster, err := p.raster.Render(path)
	if err != nil {
		return fail(err)
	}
	advance(StageRasterized, stageStart)

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	stageStart = time.Now()
	doc, err := p.texts.Extract(ctx, path, fingerprint, raster)
	if err != nil {
		return fail(err)
	}
	advance(StageTextExtracted, stageStart)

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	text := doc.Combined()

	stageStart = time.Now()
	match := p.registry.Classify(text)
	advance(StageClassified, stageStart)

	stageStart = time.Now()
	res := p.fields.Extract(text, match)
	advance(StageFieldsExtracted, stageStart)

	stageStart = time.Now()
	scores := p.scorer.Score(res)
	advance(StageScored, stageStart)

	stageStart = time.Now()
	record := assemble(path, res, scores, match, raster, doc, start)
	advance(StageAssembled, stageStart)

	p.metrics.countDocument("success")
	p.metrics.addCacheHits(doc.CacheHits)
	p.metrics.addOCRPages(doc.OCRPages)

	slog.Debug("document processed",
		"file", record.Filename,
		"template", match.String(),
		"products", len(record.Products),
		"overall", record.ConfidenceScores.Overall(),
		"elapsed", record.Diagnostics.Elapsed.Round(time.Millisecond))

	return record, nil
}

// assemble is pure data shaping: fill placeholders, attach provenance.
func assemble(
	path string,
	res *extract.Result,
	scores invoice.ConfidenceScores,
	match template.Match,
	raster *rasterize.Result,
	doc *textextract.DocumentText,
	start time.Time,
) *invoice.ExtractionRecord {
	record := &invoice.ExtractionRecord{
		Filename:         filepath.Base(path),
		Products:         res.Items,
		ConfidenceScores: scores,
		ProcessedAt:      time.Now().UTC(),
	}
	if record.Products == nil {
		record.Products = []invoice.LineItem{}
	}
	for _, field := range invoice.ScalarFields {
		if cand, ok := res.Fields[field]; ok {
			record.SetField(field, cand.Value)
		} else {
			record.SetField(field, invoice.NotAvailable)
		}
	}

	templateName := template.GenericName
	if match.Template != nil {
		templateName = match.Template.Name
	}
	record.Diagnostics = invoice.Diagnostics{
		Template:      templateName,
		TemplateScore: match.Score,
		PageCount:     raster.TotalPages,
		Truncated:     raster.Truncated,
		OCRPages:      doc.OCRPages,
		EmptyPages:    doc.EmptyPages,
		CacheHits:     doc.CacheHits,
		Elapsed:       time.Since(start),
	}
	return record
}
