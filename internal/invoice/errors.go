package invoice

import "errors"

// Error taxonomy of the pipeline. Only ErrUnreadablePDF (and wrapping
// variants) surfaces to callers as a failed document; everything else is
// degraded to a lower-confidence or partially filled record.
var (
	// ErrUnreadablePDF indicates the input file could not be opened or
	// parsed as a PDF. Fatal for the document, no retry.
	ErrUnreadablePDF = errors.New("unreadable PDF")

	// ErrExtractionFailure indicates a page's text could not be obtained by
	// any strategy. Recovered locally: the page is treated as empty text.
	ErrExtractionFailure = errors.New("text extraction failed")

	// ErrCacheUnavailable indicates the cache backend is down. The pipeline
	// degrades to recomputation; never fatal.
	ErrCacheUnavailable = errors.New("cache unavailable")
)
