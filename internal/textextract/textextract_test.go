package textextract

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoscan/invoscan/internal/cache"
	"github.com/invoscan/invoscan/internal/ocr"
	"github.com/invoscan/invoscan/internal/rasterize"
)

type fakeEngine struct {
	text  string
	conf  float64
	err   error
	calls int
}

func (f *fakeEngine) Recognize(_ context.Context, _ image.Image) (*ocr.PageText, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &ocr.PageText{Text: f.text, MeanConfidence: f.conf}, nil
}

func testRaster(pages int) *rasterize.Result {
	r := &rasterize.Result{TotalPages: pages}
	for i := 1; i <= pages; i++ {
		r.Pages = append(r.Pages, rasterize.Page{
			Number: i,
			Image:  image.NewGray(image.Rect(0, 0, 10, 10)),
		})
	}
	return r
}

func TestExtractOCRFallback(t *testing.T) {
	engine := &fakeEngine{text: "Invoice No: INV-1", conf: 0.9}
	store := cache.NewMemory(16, time.Minute)
	e := New(engine, store, Options{TTL: time.Minute})

	doc, err := e.Extract(context.Background(), "missing.pdf", "fp-1", testRaster(2))
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 2, doc.OCRPages)
	assert.Equal(t, 0, doc.EmptyPages)
	for _, p := range doc.Pages {
		assert.Equal(t, SourceOCR, p.Source)
		assert.Equal(t, "Invoice No: INV-1", p.Text)
		assert.InDelta(t, 0.9, p.Confidence, 1e-9)
	}

	// Second run with the same fingerprint is served from cache.
	doc2, err := e.Extract(context.Background(), "missing.pdf", "fp-1", testRaster(2))
	require.NoError(t, err)
	assert.Equal(t, 2, doc2.CacheHits)
	assert.Equal(t, 2, engine.calls, "engine not invoked again on cache hits")
	assert.Equal(t, doc.Combined(), doc2.Combined())
}

func TestExtractEngineFailureYieldsEmptyPage(t *testing.T) {
	engine := &fakeEngine{err: errors.New("recognizer crashed")}
	e := New(engine, nil, Options{})

	doc, err := e.Extract(context.Background(), "missing.pdf", "fp-2", testRaster(1))
	require.NoError(t, err, "single-page failure must not fail the document")
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, SourceEmpty, doc.Pages[0].Source)
	assert.Empty(t, doc.Pages[0].Text)
	assert.Equal(t, 1, doc.EmptyPages)
}

func TestExtractNoEngineNoLayer(t *testing.T) {
	e := New(nil, nil, Options{})
	doc, err := e.Extract(context.Background(), "missing.pdf", "", testRaster(1))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.EmptyPages)
}

func TestExtractHonorsContextBetweenPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := New(&fakeEngine{text: "x"}, nil, Options{})
	_, err := e.Extract(ctx, "missing.pdf", "fp", testRaster(3))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuality(t *testing.T) {
	goodText := strings.Repeat("TAX INVOICE Number 12345 Goods Rice Bags Amount 4500\n", 3)
	assert.Greater(t, Quality(goodText), DefaultMinQuality)

	assert.Zero(t, Quality(""), "empty text scores zero")
	assert.Zero(t, Quality("hi"), "too short to score")

	garbage := strings.Repeat("��� ", 20)
	assert.Less(t, Quality(garbage), DefaultMinQuality)

	symbols := strings.Repeat("@#$% ^&*! ", 10)
	assert.Less(t, Quality(symbols), DefaultMinQuality)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a\nb", Normalize("a \r\nb\t\r\n"))
	// NFKC folds fullwidth digits to ASCII.
	assert.Equal(t, "123", Normalize("１２３"))
}

func TestCombined(t *testing.T) {
	doc := &DocumentText{Pages: []PageText{
		{Number: 1, Text: "first"},
		{Number: 2, Text: "second"},
	}}
	assert.Equal(t, "first\n\nsecond", doc.Combined())
}
