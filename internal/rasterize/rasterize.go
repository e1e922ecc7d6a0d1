// Package rasterize converts PDF documents into per-page images suitable for
// OCR. Page count and effective DPI are capped to bound processing cost.
package rasterize

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/invoscan/invoscan/internal/invoice"
)

const (
	// DefaultMaxPages bounds how many pages of a document are processed.
	DefaultMaxPages = 10
	// DefaultDPI is the target rendering resolution.
	DefaultDPI = 300
	// maxPageInches is the long edge assumed for the DPI pixel budget (legal
	// paper height; anything taller is downscaled).
	maxPageInches = 14.0
)

// Options control rasterization cost limits.
type Options struct {
	MaxPages int
	DPI      int
}

// DefaultOptions returns the default rasterization limits.
func DefaultOptions() Options {
	return Options{MaxPages: DefaultMaxPages, DPI: DefaultDPI}
}

// Page is one rasterized page.
type Page struct {
	Number int // 1-based page number
	Image  image.Image
}

// Result is the ordered page image sequence for one document.
type Result struct {
	Pages      []Page
	TotalPages int
	// Truncated is set when TotalPages exceeded the page cap and trailing
	// pages were dropped.
	Truncated bool
}

// Rasterizer renders PDF pages via pdfcpu image extraction.
type Rasterizer struct {
	opts Options
}

// New creates a rasterizer, filling zero options with defaults.
func New(opts Options) *Rasterizer {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	return &Rasterizer{opts: opts}
}

// Render converts the PDF at path into page images. Files that cannot be
// opened or parsed fail with invoice.ErrUnreadablePDF.
func (r *Rasterizer) Render(path string) (*Result, error) {
	total, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", invoice.ErrUnreadablePDF, path, err)
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: %s: no pages", invoice.ErrUnreadablePDF, path)
	}

	limit := total
	truncated := false
	if limit > r.opts.MaxPages {
		limit = r.opts.MaxPages
		truncated = true
		slog.Debug("page cap reached, dropping trailing pages",
			"file", path, "total", total, "cap", r.opts.MaxPages)
	}

	tempDir, err := os.MkdirTemp("", "invoscan-raster-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	selected := make([]string, 0, limit)
	for i := 1; i <= limit; i++ {
		selected = append(selected, strconv.Itoa(i))
	}
	if err := api.ExtractImagesFile(path, tempDir, selected, nil); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", invoice.ErrUnreadablePDF, path, err)
	}

	byPage, err := collectPageImages(tempDir)
	if err != nil {
		return nil, fmt.Errorf("collect rasterized pages: %w", err)
	}

	pages := make([]Page, 0, limit)
	for num := 1; num <= limit; num++ {
		img, ok := byPage[num]
		if !ok {
			// Pages without an embedded raster (pure vector pages) are left
			// to the text-layer strategy; record a nil image placeholder.
			pages = append(pages, Page{Number: num})
			continue
		}
		pages = append(pages, Page{Number: num, Image: r.capResolution(img)})
	}

	return &Result{Pages: pages, TotalPages: total, Truncated: truncated}, nil
}

// capResolution downscales images exceeding the DPI pixel budget.
func (r *Rasterizer) capResolution(img image.Image) image.Image {
	maxDim := int(float64(r.opts.DPI) * maxPageInches)
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}

// collectPageImages walks the extraction directory and keeps the largest
// image per page; pdfcpu names files page_<num>_image_<idx>.<ext>.
func collectPageImages(dir string) (map[int]image.Image, error) {
	result := make(map[int]image.Image)
	sizes := make(map[int]int)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		pageNum, err := parsePageFromFilename(name)
		if err != nil {
			continue
		}
		img, err := loadImageFile(filepath.Join(dir, name))
		if err != nil || img == nil {
			continue
		}
		b := img.Bounds()
		if area := b.Dx() * b.Dy(); area > sizes[pageNum] {
			result[pageNum] = img
			sizes[pageNum] = area
		}
	}
	return result, nil
}

func loadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // G304: temp dir path constructed above
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	return img, err
}

// parsePageFromFilename extracts the page number from a pdfcpu output name.
func parsePageFromFilename(filename string) (int, error) {
	if !strings.HasPrefix(filename, "page_") {
		return 0, errors.New("not a page file")
	}
	parts := strings.Split(filename, "_")
	if len(parts) < 2 {
		return 0, errors.New("invalid filename format")
	}
	pageNum, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.New("invalid page number")
	}
	return pageNum, nil
}
