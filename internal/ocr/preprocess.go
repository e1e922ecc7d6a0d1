package ocr

import (
	"image"

	"github.com/disintegration/imaging"
)

// contrastBoost is the percentage contrast adjustment applied before
// recognition; scanned invoices are often washed out.
const contrastBoost = 50

// Preprocess prepares a page image for recognition: grayscale conversion
// followed by a contrast boost. Tesseract performs markedly better on
// high-contrast monochrome input.
func Preprocess(img image.Image) image.Image {
	gray := imaging.Grayscale(img)
	return imaging.AdjustContrast(gray, contrastBoost)
}
