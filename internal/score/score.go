// Package score turns raw extraction candidates into per-field confidence
// values. All scores live in [0,1]; every update clamps.
package score

import (
	"regexp"

	"github.com/invoscan/invoscan/internal/extract"
	"github.com/invoscan/invoscan/internal/invoice"
)

// Weights are the tunable scoring parameters. The magnitudes are
// configuration, not invariants; defaults were chosen against sample
// invoices rather than derived.
type Weights struct {
	// AgreementBoost is added per extra independent cue agreeing on a value.
	AgreementBoost float64 `mapstructure:"agreement_boost"`
	// FormatPenalty multiplies the score when a value fails its expected
	// format check.
	FormatPenalty float64 `mapstructure:"format_penalty"`
	// ProductStep is the per-line-item confidence increment.
	ProductStep float64 `mapstructure:"product_step"`
	// ProductCap bounds the products confidence.
	ProductCap float64 `mapstructure:"product_cap"`
}

// DefaultWeights returns the default scoring parameters.
func DefaultWeights() Weights {
	return Weights{
		AgreementBoost: 0.15,
		FormatPenalty:  0.5,
		ProductStep:    0.2,
		ProductCap:     0.9,
	}
}

// Clamp forces v into [0,1].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Scorer computes confidence mappings.
type Scorer struct {
	w Weights
}

// New creates a scorer. Zero-valued weights fall back to defaults.
func New(w Weights) *Scorer {
	d := DefaultWeights()
	if w.AgreementBoost == 0 {
		w.AgreementBoost = d.AgreementBoost
	}
	if w.FormatPenalty == 0 {
		w.FormatPenalty = d.FormatPenalty
	}
	if w.ProductStep == 0 {
		w.ProductStep = d.ProductStep
	}
	if w.ProductCap == 0 {
		w.ProductCap = d.ProductCap
	}
	return &Scorer{w: w}
}

var (
	fssaiFormatRe  = regexp.MustCompile(`^\d{10,14}$`)
	hasDigitRe     = regexp.MustCompile(`\d`)
	companyShapeRe = regexp.MustCompile(`[A-Za-z]{2,}`)
)

// Score produces the confidence mapping for one extraction result. Every
// attempted field gets an entry; fields that were attempted but not found
// score zero. Overall is the plain average over attempted fields.
func (s *Scorer) Score(res *extract.Result) invoice.ConfidenceScores {
	scores := make(invoice.ConfidenceScores, len(res.Attempted))

	for _, field := range res.Attempted {
		if field == invoice.FieldProducts {
			scores[field] = Clamp(min(s.w.ProductCap, s.w.ProductStep*float64(len(res.Items))))
			continue
		}
		cand, ok := res.Fields[field]
		if !ok {
			scores[field] = 0
			continue
		}
		scores[field] = s.scoreField(field, cand)
	}

	if len(res.Attempted) > 0 {
		var sum float64
		for _, field := range res.Attempted {
			sum += scores[field]
		}
		scores["overall"] = Clamp(sum / float64(len(res.Attempted)))
	}
	return scores
}

func (s *Scorer) scoreField(field string, cand extract.Candidate) float64 {
	v := Clamp(cand.Confidence)
	if cand.Cues > 1 {
		v = Clamp(v + s.w.AgreementBoost*float64(cand.Cues-1))
	}
	if !s.formatOK(field, cand.Value) {
		v = Clamp(v * s.w.FormatPenalty)
	}
	return v
}

// formatOK checks the value against the field's expected shape.
func (s *Scorer) formatOK(field, value string) bool {
	switch field {
	case invoice.FieldInvoiceDate:
		return extract.IsDDMMYYYY(value)
	case invoice.FieldFSSAINumber:
		return fssaiFormatRe.MatchString(value)
	case invoice.FieldInvoiceNumber:
		return hasDigitRe.MatchString(value)
	case invoice.FieldCompanyName:
		return companyShapeRe.MatchString(value)
	}
	return true
}
