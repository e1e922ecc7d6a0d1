package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/invoscan/invoscan/internal/invoice"
)

const (
	// DefaultBinary is the tesseract executable looked up on PATH.
	DefaultBinary = "tesseract"
	// DefaultLanguage selects the recognition model.
	DefaultLanguage = "eng"
	// DefaultPSM 6 assumes a single uniform block of text, which suits the
	// dense layout of invoice pages.
	DefaultPSM = 6
)

// TesseractOptions configure the subprocess engine.
type TesseractOptions struct {
	Binary   string
	Language string
	PSM      int
}

// Tesseract is an Engine that invokes the tesseract CLI and parses its TSV
// output into words with confidences.
type Tesseract struct {
	opts TesseractOptions
}

// NewTesseract creates a tesseract-backed engine, filling zero options with
// defaults.
func NewTesseract(opts TesseractOptions) *Tesseract {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.PSM <= 0 {
		opts.PSM = DefaultPSM
	}
	return &Tesseract{opts: opts}
}

// Available reports whether the configured binary can be found.
func (e *Tesseract) Available() bool {
	_, err := exec.LookPath(e.opts.Binary)
	return err == nil
}

// Recognize implements Engine. The image is preprocessed, written to a temp
// file and fed to tesseract in TSV mode.
func (e *Tesseract) Recognize(ctx context.Context, img image.Image) (*PageText, error) {
	if img == nil {
		return &PageText{}, nil
	}

	tempDir, err := os.MkdirTemp("", "invoscan-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	inputPath := filepath.Join(tempDir, "page.png")
	if err := writePNG(inputPath, Preprocess(img)); err != nil {
		return nil, fmt.Errorf("write page image: %w", err)
	}

	args := []string{
		inputPath, "stdout",
		"-l", e.opts.Language,
		"--psm", strconv.Itoa(e.opts.PSM),
		"tsv",
	}
	cmd := exec.CommandContext(ctx, e.opts.Binary, args...) //nolint:gosec // G204: binary comes from config
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: tesseract: %w: %s",
			invoice.ErrExtractionFailure, err, strings.TrimSpace(stderr.String()))
	}

	return parseTSV(stdout.String()), nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // G304: temp dir path constructed above
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return png.Encode(f, img)
}

// TSV column indices per tesseract's fixed output format.
const (
	tsvColLevel  = 0
	tsvColBlock  = 2
	tsvColPar    = 3
	tsvColLine   = 4
	tsvColLeft   = 6
	tsvColTop    = 7
	tsvColWidth  = 8
	tsvColHeight = 9
	tsvColConf   = 10
	tsvColText   = 11
	tsvColumns   = 12

	tsvLevelWord = 5
)

// parseTSV converts tesseract TSV output into a PageText. Words are grouped
// into lines by the line_num column; rows with negative confidence (layout
// markers) are skipped.
func parseTSV(raw string) *PageText {
	var (
		words    []Word
		lines    []string
		current  strings.Builder
		lastLine string
		confSum  float64
	)

	flushLine := func() {
		if current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
	}

	for i, row := range strings.Split(raw, "\n") {
		if i == 0 { // header row
			continue
		}
		cols := strings.Split(row, "\t")
		if len(cols) < tsvColumns {
			continue
		}
		level, err := strconv.Atoi(cols[tsvColLevel])
		if err != nil || level != tsvLevelWord {
			continue
		}
		conf, err := strconv.ParseFloat(cols[tsvColConf], 64)
		if err != nil || conf < 0 {
			continue
		}
		text := strings.TrimSpace(cols[tsvColText])
		if text == "" {
			continue
		}

		// Line numbers restart per paragraph, so key on the full position.
		lineKey := cols[tsvColBlock] + "/" + cols[tsvColPar] + "/" + cols[tsvColLine]
		if lineKey != lastLine {
			flushLine()
			lastLine = lineKey
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(text)

		x, _ := strconv.Atoi(cols[tsvColLeft])
		y, _ := strconv.Atoi(cols[tsvColTop])
		w, _ := strconv.Atoi(cols[tsvColWidth])
		h, _ := strconv.Atoi(cols[tsvColHeight])
		words = append(words, Word{
			Text:       text,
			Confidence: conf / 100.0,
			X:          x,
			Y:          y,
			Width:      w,
			Height:     h,
		})
		confSum += conf / 100.0
	}
	flushLine()

	page := &PageText{
		Text:  strings.Join(lines, "\n"),
		Words: words,
	}
	if len(words) > 0 {
		page.MeanConfidence = confSum / float64(len(words))
	}
	return page
}
