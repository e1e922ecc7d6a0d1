// Package ocr recognizes text on rasterized invoice pages. The default engine
// shells out to tesseract; the Engine interface keeps the pipeline decoupled
// from any particular recognizer.
package ocr

import (
	"context"
	"image"
)

// Word is one recognized token with its bounding box and confidence in [0,1].
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// PageText is the recognition result for one page image.
type PageText struct {
	Text           string  `json:"text"`
	Words          []Word  `json:"words,omitempty"`
	MeanConfidence float64 `json:"mean_confidence"`
}

// Engine recognizes text on a page image.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (*PageText, error)
}
