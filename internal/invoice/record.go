package invoice

import (
	"encoding/json"
	"time"
)

// NotAvailable is the placeholder stored for schema fields that were
// attempted but yielded no value.
const NotAvailable = "N/A"

// Field names of the externally visible record schema. Export consumers key
// off these strings, so they are part of the output contract.
const (
	FieldCompanyName   = "company_name"
	FieldInvoiceNumber = "invoice_number"
	FieldInvoiceDate   = "invoice_date"
	FieldFSSAINumber   = "fssai_number"
	FieldProducts      = "products"
)

// ScalarFields lists the header-level fields in stable output order.
var ScalarFields = []string{
	FieldCompanyName,
	FieldInvoiceNumber,
	FieldInvoiceDate,
	FieldFSSAINumber,
}

// LineItem is one row of product data extracted from an invoice table.
// All values are kept as strings; absent cells are empty.
type LineItem struct {
	GoodsDescription string `json:"goods_description"`
	HSNSACCode       string `json:"hsn_sac_code"`
	Quantity         string `json:"quantity"`
	Weight           string `json:"weight"`
	Rate             string `json:"rate"`
	Amount           string `json:"amount"`
	// WeightKg carries the weight converted to kilograms where the unit
	// could be parsed; zero when conversion was not possible.
	WeightKg float64 `json:"weight_in_kg,omitempty"`
}

// ConfidenceScores maps field names to extraction confidence in [0,1].
// The "overall" entry aggregates across attempted fields.
type ConfidenceScores map[string]float64

// Overall returns the aggregate confidence, or 0 if not present.
func (c ConfidenceScores) Overall() float64 { return c["overall"] }

// Diagnostics carries non-contract metadata about how a record was produced.
type Diagnostics struct {
	Template      string        `json:"template"`
	TemplateScore float64       `json:"template_score"`
	PageCount     int           `json:"page_count"`
	Truncated     bool          `json:"truncated"`
	OCRPages      int           `json:"ocr_pages"`
	EmptyPages    int           `json:"empty_pages"`
	CacheHits     int           `json:"cache_hits"`
	Elapsed       time.Duration `json:"elapsed_ns"`
}

// ExtractionRecord is the complete output of the pipeline for one document.
// The JSON shape is the persisted contract consumed by export and UI layers;
// fields must not be added to or removed from the serialized form.
type ExtractionRecord struct {
	Filename         string           `json:"filename"`
	CompanyName      string           `json:"company_name"`
	InvoiceNumber    string           `json:"invoice_number"`
	InvoiceDate      string           `json:"invoice_date"`
	FSSAINumber      string           `json:"fssai_number"`
	Products         []LineItem       `json:"products"`
	ConfidenceScores ConfidenceScores `json:"confidence_scores"`
	ProcessedAt      time.Time        `json:"processed_at"`

	// Diagnostics are excluded from the export contract.
	Diagnostics Diagnostics `json:"-"`
}

// Field returns the value of a header-level field by schema name.
func (r *ExtractionRecord) Field(name string) string {
	switch name {
	case FieldCompanyName:
		return r.CompanyName
	case FieldInvoiceNumber:
		return r.InvoiceNumber
	case FieldInvoiceDate:
		return r.InvoiceDate
	case FieldFSSAINumber:
		return r.FSSAINumber
	}
	return ""
}

// SetField assigns a header-level field by schema name.
func (r *ExtractionRecord) SetField(name, value string) {
	switch name {
	case FieldCompanyName:
		r.CompanyName = value
	case FieldInvoiceNumber:
		r.InvoiceNumber = value
	case FieldInvoiceDate:
		r.InvoiceDate = value
	case FieldFSSAINumber:
		r.FSSAINumber = value
	}
}

// MarshalIndented renders the record as pretty JSON in the export shape.
func (r *ExtractionRecord) MarshalIndented() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
