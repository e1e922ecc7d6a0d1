// Package textextract produces per-page text for an invoice document. It
// tries the embedded PDF text layer first and falls back to OCR when the
// layer is missing or unusable, with both strategies cached per page.
package textextract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"github.com/invoscan/invoscan/internal/cache"
	"github.com/invoscan/invoscan/internal/invoice"
	"github.com/invoscan/invoscan/internal/ocr"
	"github.com/invoscan/invoscan/internal/rasterize"
)

// Source identifies which strategy produced a page's text.
type Source string

const (
	SourceVector Source = "vector"
	SourceOCR    Source = "ocr"
	SourceEmpty  Source = "empty"
)

// PageText is the extracted text of one page. Words carry positions and
// per-word confidences when the OCR engine produced them; the vector path
// and cached entries have none.
type PageText struct {
	Number     int        `json:"number"`
	Text       string     `json:"text"`
	Source     Source     `json:"source"`
	Confidence float64    `json:"confidence"`
	Words      []ocr.Word `json:"words,omitempty"`
}

// DocumentText is the full extraction result for one document.
type DocumentText struct {
	Pages      []PageText
	OCRPages   int
	EmptyPages int
	CacheHits  int
}

// Combined joins all page texts with page breaks.
func (d *DocumentText) Combined() string {
	var out string
	for i, p := range d.Pages {
		if i > 0 {
			out += "\n\n"
		}
		out += p.Text
	}
	return out
}

// Options configure the extractor.
type Options struct {
	// MinQuality is the vector-layer quality threshold; below it the page
	// falls back to OCR.
	MinQuality float64
	// TTL applies to cached page payloads.
	TTL time.Duration
}

// Extractor extracts document text using the vector-first strategy.
type Extractor struct {
	engine ocr.Engine
	store  cache.Store
	opts   Options
}

// New creates an extractor. engine may be nil, in which case pages without a
// usable text layer come back empty; store may be nil to disable caching.
func New(engine ocr.Engine, store cache.Store, opts Options) *Extractor {
	if opts.MinQuality <= 0 {
		opts.MinQuality = DefaultMinQuality
	}
	return &Extractor{engine: engine, store: store, opts: opts}
}

// pagePayload is the cached per-page result.
type pagePayload struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Extract produces text for every rasterized page. Recognition failures on a
// single page yield empty text for that page rather than failing the
// document. The context is honored between pages, never mid-page.
func (e *Extractor) Extract(ctx context.Context, path, fingerprint string, raster *rasterize.Result) (*DocumentText, error) {
	doc := &DocumentText{Pages: make([]PageText, 0, len(raster.Pages))}

	vector := newVectorReader(path)

	for _, page := range raster.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := e.extractPage(ctx, fingerprint, page, vector, doc)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			slog.Warn("page extraction failed, continuing with empty text",
				"page", page.Number, "error", err)
			text = PageText{Number: page.Number, Source: SourceEmpty}
		}
		if text.Text == "" {
			text.Source = SourceEmpty
			doc.EmptyPages++
		}
		doc.Pages = append(doc.Pages, text)
	}
	return doc, nil
}

func (e *Extractor) extractPage(ctx context.Context, fingerprint string, page rasterize.Page, vector *vectorReader, doc *DocumentText) (PageText, error) {
	// Vector layer first: cheap and exact when present.
	if payload, ok := e.cacheGet(ctx, fingerprint, page.Number, cache.StageVectorText); ok {
		doc.CacheHits++
		if payload.Confidence >= e.opts.MinQuality {
			return PageText{Number: page.Number, Text: payload.Text, Source: SourceVector, Confidence: payload.Confidence}, nil
		}
	} else {
		raw, err := vector.pageText(page.Number)
		if err == nil {
			text := Normalize(raw)
			quality := Quality(text)
			e.cachePut(ctx, fingerprint, page.Number, cache.StageVectorText, pagePayload{Text: text, Confidence: quality})
			if quality >= e.opts.MinQuality {
				return PageText{Number: page.Number, Text: text, Source: SourceVector, Confidence: quality}, nil
			}
		}
	}

	// OCR fallback.
	if payload, ok := e.cacheGet(ctx, fingerprint, page.Number, cache.StageOCRText); ok {
		doc.CacheHits++
		doc.OCRPages++
		return PageText{Number: page.Number, Text: payload.Text, Source: SourceOCR, Confidence: payload.Confidence}, nil
	}
	if e.engine == nil || page.Image == nil {
		return PageText{Number: page.Number, Source: SourceEmpty}, nil
	}

	result, err := e.engine.Recognize(ctx, page.Image)
	if err != nil {
		return PageText{}, fmt.Errorf("%w: page %d: %w", invoice.ErrExtractionFailure, page.Number, err)
	}
	text := Normalize(result.Text)
	e.cachePut(ctx, fingerprint, page.Number, cache.StageOCRText, pagePayload{Text: text, Confidence: result.MeanConfidence})
	doc.OCRPages++
	return PageText{
		Number:     page.Number,
		Text:       text,
		Source:     SourceOCR,
		Confidence: result.MeanConfidence,
		Words:      result.Words,
	}, nil
}

func (e *Extractor) cacheGet(ctx context.Context, fingerprint string, page int, stage cache.Stage) (pagePayload, bool) {
	if e.store == nil || fingerprint == "" {
		return pagePayload{}, false
	}
	raw, err := e.store.Get(ctx, fingerprint, page, stage)
	if err != nil {
		return pagePayload{}, false
	}
	var payload pagePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return pagePayload{}, false
	}
	return payload, true
}

func (e *Extractor) cachePut(ctx context.Context, fingerprint string, page int, stage cache.Stage, payload pagePayload) {
	if e.store == nil || fingerprint == "" {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = e.store.Put(ctx, fingerprint, page, stage, raw, e.opts.TTL)
}

// vectorReader wraps the PDF text layer reader, opening lazily so documents
// with no usable layer don't pay for a parse twice.
type vectorReader struct {
	path   string
	reader *pdf.Reader
	opened bool
	err    error
}

func newVectorReader(path string) *vectorReader {
	return &vectorReader{path: path}
}

func (v *vectorReader) pageText(number int) (text string, err error) {
	// The underlying parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text layer parse: %v", r)
		}
	}()

	if !v.opened {
		v.opened = true
		v.reader, v.err = pdf.Open(v.path)
	}
	if v.err != nil {
		return "", v.err
	}
	if number < 1 || number > v.reader.NumPage() {
		return "", fmt.Errorf("page %d out of range", number)
	}
	page := v.reader.Page(number)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d has no content", number)
	}

	// Row grouping keeps the line structure the table and header heuristics
	// depend on; plain text is the fallback for pages the parser cannot
	// segment into rows.
	rows, rerr := page.GetTextByRow()
	if rerr == nil && len(rows) > 0 {
		var b strings.Builder
		for _, row := range rows {
			var line strings.Builder
			for i, t := range row.Content {
				if i > 0 {
					line.WriteString(" ")
				}
				line.WriteString(t.S)
			}
			b.WriteString(strings.TrimRight(line.String(), " \n"))
			b.WriteString("\n")
		}
		return b.String(), nil
	}
	return page.GetPlainText(nil)
}
