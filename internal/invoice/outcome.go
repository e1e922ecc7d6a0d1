package invoice

// Outcome is the tagged result handed to callers: exactly one of Record,
// Batch, or Err is set. It replaces shape-sniffing on the consumer side with
// an explicit discriminated type.
type Outcome struct {
	Record *ExtractionRecord
	Batch  []BatchItem
	Err    error
}

// BatchItem pairs one input file with either its record or its failure.
type BatchItem struct {
	Filename string
	Record   *ExtractionRecord
	Err      error
}

// Success wraps a single processed record.
func Success(rec *ExtractionRecord) Outcome { return Outcome{Record: rec} }

// BatchSuccess wraps the per-file results of a batch run.
func BatchSuccess(items []BatchItem) Outcome { return Outcome{Batch: items} }

// Failure wraps a document-level error.
func Failure(err error) Outcome { return Outcome{Err: err} }

// OK reports whether the outcome carries no error.
func (o Outcome) OK() bool { return o.Err == nil }
