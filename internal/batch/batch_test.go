package batch

import (
	"context"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoscan/invoscan/internal/cache"
	"github.com/invoscan/invoscan/internal/ocr"
	"github.com/invoscan/invoscan/internal/pipeline"
	"github.com/invoscan/invoscan/internal/testutil"
)

type stubEngine struct{}

func (stubEngine) Recognize(context.Context, image.Image) (*ocr.PageText, error) {
	return &ocr.PageText{}, nil
}

func buildTestPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	p, err := pipeline.NewBuilder().
		WithOCREngine(stubEngine{}).
		WithCache(cache.NewMemory(64, time.Minute)).
		WithWorkers(2).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestRunProcessesDirectory(t *testing.T) {
	p := buildTestPipeline(t)
	dir := t.TempDir()
	testutil.WritePDF(t, dir, "a.pdf", testutil.SampleInvoiceLines()...)
	testutil.WritePDF(t, dir, "b.pdf", testutil.SampleInvoiceLines()...)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o600))

	result, err := Run(context.Background(), p, []string{dir}, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	assert.Zero(t, result.Failed)
	assert.Equal(t, "a.pdf", result.Items[0].Filename)
	assert.Equal(t, "b.pdf", result.Items[1].Filename)
	assert.Equal(t, "INV-2024-001", result.Items[0].Record.InvoiceNumber)
}

func TestRunCountsFailures(t *testing.T) {
	p := buildTestPipeline(t)
	dir := t.TempDir()
	testutil.WritePDF(t, dir, "good.pdf", testutil.SampleInvoiceLines()...)
	testutil.WriteCorruptPDF(t, dir, "bad.pdf")

	result, err := Run(context.Background(), p, []string{dir}, DefaultConfig())
	require.NoError(t, err, "per-document failures do not fail the run")
	assert.Equal(t, 1, result.Failed)
}

func TestRunNoFiles(t *testing.T) {
	p := buildTestPipeline(t)
	_, err := Run(context.Background(), p, []string{t.TempDir()}, DefaultConfig())
	assert.Error(t, err)
}

func TestRunSavesRecords(t *testing.T) {
	p := buildTestPipeline(t)
	dir := t.TempDir()
	testutil.WritePDF(t, dir, "invoice.pdf", testutil.SampleInvoiceLines()...)

	outDir := filepath.Join(t.TempDir(), "out")
	cfg := DefaultConfig()
	cfg.OutputDir = outDir

	_, err := Run(context.Background(), p, []string{dir}, cfg)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(outDir, "invoice.json"))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "INV-2024-001", out["invoice_number"])
}

func TestRunInvalidConfig(t *testing.T) {
	p := buildTestPipeline(t)
	cfg := DefaultConfig()
	cfg.Format = "xml"
	_, err := Run(context.Background(), p, []string{t.TempDir()}, cfg)
	assert.Error(t, err)
}

func TestDiscoverPDFFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	for _, path := range []string{
		filepath.Join(dir, "one.pdf"),
		filepath.Join(dir, "two.PDF"),
		filepath.Join(dir, "skip.txt"),
		filepath.Join(sub, "nested.pdf"),
	} {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	}

	flat, err := DiscoverPDFFiles([]string{dir}, false, nil, nil)
	require.NoError(t, err)
	assert.Len(t, flat, 2, "non-recursive skips subdirectories, extension match is case-insensitive")

	deep, err := DiscoverPDFFiles([]string{dir}, true, nil, nil)
	require.NoError(t, err)
	assert.Len(t, deep, 3)

	included, err := DiscoverPDFFiles([]string{dir}, true, []string{"one.*"}, nil)
	require.NoError(t, err)
	require.Len(t, included, 1)
	assert.Equal(t, "one.pdf", filepath.Base(included[0]))

	excluded, err := DiscoverPDFFiles([]string{dir}, true, nil, []string{"one.*"})
	require.NoError(t, err)
	assert.Len(t, excluded, 2)

	_, err = DiscoverPDFFiles([]string{filepath.Join(dir, "missing.pdf")}, false, nil, nil)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.Workers = -1
	assert.Error(t, bad.Validate())
}
