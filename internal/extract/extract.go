// Package extract pulls structured invoice fields out of document text.
// Scalar fields come from first-match-wins rule chains; line items come from
// table detection plus column role classification.
package extract

import (
	"log/slog"

	"github.com/invoscan/invoscan/internal/invoice"
	"github.com/invoscan/invoscan/internal/template"
)

// Result is the raw extraction output before scoring and assembly. Fields
// absent from the map were attempted but not found.
type Result struct {
	Fields map[string]Candidate
	Items  []invoice.LineItem
	// Attempted lists every field the extractor tried, found or not, so the
	// scorer can distinguish not-found from never-attempted.
	Attempted []string
}

// Extractor applies the rule chains and table heuristics.
type Extractor struct {
	chains []Chain
}

// New creates an extractor with the built-in rule chains.
func New() *Extractor {
	return &Extractor{chains: Chains()}
}

// Extract runs every field chain and the table pass over the document text.
// A field with no matching rule is simply absent from Fields; that is not an
// error. Items is never nil.
func (e *Extractor) Extract(text string, match template.Match) *Result {
	res := &Result{
		Fields: make(map[string]Candidate),
		Items:  []invoice.LineItem{},
	}

	for _, chain := range e.chains {
		res.Attempted = append(res.Attempted, chain.Field)
		cand, ok := chain.Apply(text)
		if !ok {
			continue
		}
		res.Fields[chain.Field] = cand
	}

	res.Attempted = append(res.Attempted, invoice.FieldCompanyName)
	if cand, ok := ExtractCompanyName(text); ok {
		res.Fields[invoice.FieldCompanyName] = cand
	}

	res.Attempted = append(res.Attempted, invoice.FieldProducts)
	for _, t := range FindTables(text) {
		items := t.LineItems(match.Variant)
		if len(items) > 0 {
			res.Items = append(res.Items, items...)
		}
	}
	if len(res.Items) == 0 {
		slog.Debug("no line items detected", "template", match.String())
	}

	return res
}
