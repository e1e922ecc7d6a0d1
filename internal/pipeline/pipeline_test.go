package pipeline

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoscan/invoscan/internal/cache"
	"github.com/invoscan/invoscan/internal/invoice"
	"github.com/invoscan/invoscan/internal/ocr"
	"github.com/invoscan/invoscan/internal/testutil"
)

type stubEngine struct {
	text  string
	calls int
}

func (s *stubEngine) Recognize(_ context.Context, _ image.Image) (*ocr.PageText, error) {
	s.calls++
	return &ocr.PageText{Text: s.text, MeanConfidence: 0.8}, nil
}

func buildTestPipeline(t *testing.T, opts ...func(*Builder)) *Pipeline {
	t.Helper()

	b := NewBuilder().
		WithOCREngine(&stubEngine{}).
		WithCache(cache.NewMemory(64, time.Minute)).
		WithWorkers(2)
	for _, opt := range opts {
		opt(b)
	}
	p, err := b.Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestProcessVectorTextDocument(t *testing.T) {
	p := buildTestPipeline(t)
	path := testutil.WritePDF(t, t.TempDir(), "invoice.pdf", testutil.SampleInvoiceLines()...)

	rec, err := p.ProcessContext(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "invoice.pdf", rec.Filename)
	assert.Equal(t, "INV-2024-001", rec.InvoiceNumber)
	assert.Equal(t, "15/03/2024", rec.InvoiceDate)
	assert.Equal(t, "12345678901234", rec.FSSAINumber)
	assert.Equal(t, "M/s SHRI GANESH RICE MILL", rec.CompanyName)

	assert.Greater(t, rec.ConfidenceScores[invoice.FieldInvoiceNumber], 0.0)
	assert.Greater(t, rec.ConfidenceScores[invoice.FieldInvoiceDate], 0.0)
	assert.Greater(t, rec.ConfidenceScores.Overall(), 0.0)

	require.Len(t, rec.Products, 1)
	assert.Equal(t, "STEAM KOLAM RICE", rec.Products[0].GoodsDescription)
	assert.Equal(t, "500", rec.Products[0].Quantity)

	assert.Equal(t, "pattern_a", rec.Diagnostics.Template)
	assert.Equal(t, 1, rec.Diagnostics.PageCount)
	assert.Zero(t, rec.Diagnostics.OCRPages, "text layer was good enough, no OCR")
	assert.False(t, rec.ProcessedAt.IsZero())
}

func TestProcessUnreadablePDF(t *testing.T) {
	p := buildTestPipeline(t)
	path := testutil.WriteCorruptPDF(t, t.TempDir(), "broken.pdf")

	rec, err := p.ProcessContext(context.Background(), path)
	assert.Nil(t, rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, invoice.ErrUnreadablePDF)
}

func TestProcessIdempotentWithCache(t *testing.T) {
	p := buildTestPipeline(t)
	path := testutil.WritePDF(t, t.TempDir(), "invoice.pdf", testutil.SampleInvoiceLines()...)

	first, err := p.ProcessContext(context.Background(), path)
	require.NoError(t, err)
	second, err := p.ProcessContext(context.Background(), path)
	require.NoError(t, err)

	assert.Positive(t, second.Diagnostics.CacheHits, "second run is served from cache")

	// The extracted content must be identical whether or not the cache hit.
	assert.Equal(t, first.CompanyName, second.CompanyName)
	assert.Equal(t, first.InvoiceNumber, second.InvoiceNumber)
	assert.Equal(t, first.InvoiceDate, second.InvoiceDate)
	assert.Equal(t, first.FSSAINumber, second.FSSAINumber)
	assert.Equal(t, first.Products, second.Products)
	assert.Equal(t, first.ConfidenceScores, second.ConfidenceScores)
}

func TestProcessEmptyDocumentYieldsWellFormedRecord(t *testing.T) {
	p := buildTestPipeline(t)
	// No text layer and no page raster to OCR.
	path := testutil.WritePDF(t, t.TempDir(), "blank.pdf")

	rec, err := p.ProcessContext(context.Background(), path)
	require.NoError(t, err, "an empty document degrades, it does not fail")
	require.NotNil(t, rec)

	assert.Equal(t, invoice.NotAvailable, rec.CompanyName)
	assert.Equal(t, invoice.NotAvailable, rec.InvoiceNumber)
	assert.Equal(t, invoice.NotAvailable, rec.InvoiceDate)
	assert.Equal(t, invoice.NotAvailable, rec.FSSAINumber)
	assert.NotNil(t, rec.Products)
	assert.Empty(t, rec.Products)
	assert.Zero(t, rec.ConfidenceScores.Overall())
}

func TestProcessTruncatesLongDocuments(t *testing.T) {
	p := buildTestPipeline(t, func(b *Builder) { b.WithMaxPages(2) })
	path := testutil.WriteMultiPagePDF(t, t.TempDir(), "long.pdf",
		testutil.SampleInvoiceLines(),
		[]string{"page two"},
		[]string{"page three"},
	)

	rec, err := p.ProcessContext(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, rec.Diagnostics.PageCount)
	assert.True(t, rec.Diagnostics.Truncated)
	assert.Equal(t, "INV-2024-001", rec.InvoiceNumber, "fields from retained pages still extract")
}

func TestProcessConfidencesClamped(t *testing.T) {
	p := buildTestPipeline(t)
	path := testutil.WritePDF(t, t.TempDir(), "invoice.pdf", testutil.SampleInvoiceLines()...)

	rec, err := p.ProcessContext(context.Background(), path)
	require.NoError(t, err)
	for field, v := range rec.ConfidenceScores {
		assert.GreaterOrEqual(t, v, 0.0, field)
		assert.LessOrEqual(t, v, 1.0, field)
	}
}

func TestProcessBatchMixed(t *testing.T) {
	p := buildTestPipeline(t)
	dir := t.TempDir()

	var paths []string
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"} {
		paths = append(paths, testutil.WritePDF(t, dir, name, testutil.SampleInvoiceLines()...))
	}
	paths = append(paths, testutil.WriteCorruptPDF(t, dir, "corrupt.pdf"))

	items := p.ProcessBatchContext(context.Background(), paths)
	require.Len(t, items, 5)

	for i, item := range items[:4] {
		assert.NoError(t, item.Err, "document %d", i)
		require.NotNil(t, item.Record)
		assert.Equal(t, item.Filename, item.Record.Filename)
	}
	assert.Equal(t, "corrupt.pdf", items[4].Filename)
	assert.Nil(t, items[4].Record)
	assert.ErrorIs(t, items[4].Err, invoice.ErrUnreadablePDF)
}

func TestProcessBatchEmpty(t *testing.T) {
	p := buildTestPipeline(t)
	items := p.ProcessBatchContext(context.Background(), nil)
	assert.Empty(t, items)
}

func TestProcessBatchCancellation(t *testing.T) {
	p := buildTestPipeline(t)
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 4; i++ {
		paths = append(paths, testutil.WritePDF(t, dir, "doc.pdf", "x"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := p.ProcessBatchContext(ctx, paths)
	require.Len(t, items, 4)
	for _, item := range items {
		if item.Record == nil {
			assert.Error(t, item.Err, "unprocessed documents carry the cancellation error")
		}
	}
}

func TestProcessWithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := buildTestPipeline(t, func(b *Builder) { b.WithMetrics(reg) })
	path := testutil.WritePDF(t, t.TempDir(), "invoice.pdf", testutil.SampleInvoiceLines()...)

	_, err := p.ProcessContext(context.Background(), path)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["invoscan_documents_total"])
	assert.True(t, names["invoscan_stage_duration_seconds"])
}

func TestStageTransitions(t *testing.T) {
	assert.True(t, StageReceived.CanAdvance(StageRasterized))
	assert.True(t, StageScored.CanAdvance(StageAssembled))
	assert.True(t, StageReceived.CanAdvance(StageFailed))

	assert.False(t, StageReceived.CanAdvance(StageClassified), "stages cannot be skipped")
	assert.False(t, StageAssembled.CanAdvance(StageFailed), "terminal stages do not advance")
	assert.False(t, StageFailed.CanAdvance(StageRasterized))
}

func TestBuilderDefaults(t *testing.T) {
	p, err := NewBuilder().
		WithOCREngine(&stubEngine{}).
		WithoutCache().
		Build()
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	assert.Nil(t, p.store, "cache disabled")
	assert.NotNil(t, p.Registry())
	_, ok := p.Registry().Get("pattern_a")
	assert.True(t, ok, "built-in templates are registered")
}
