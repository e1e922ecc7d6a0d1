package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoscan/invoscan/internal/extract"
	"github.com/invoscan/invoscan/internal/invoice"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-0.3))
	assert.Equal(t, 1.0, Clamp(1.7))
	assert.Equal(t, 0.5, Clamp(0.5))
}

func TestScoreAttemptedButMissingIsZero(t *testing.T) {
	s := New(Weights{})
	res := &extract.Result{
		Fields:    map[string]extract.Candidate{},
		Items:     []invoice.LineItem{},
		Attempted: []string{invoice.FieldInvoiceNumber, invoice.FieldProducts},
	}

	scores := s.Score(res)
	assert.Equal(t, 0.0, scores[invoice.FieldInvoiceNumber])
	assert.Equal(t, 0.0, scores[invoice.FieldProducts])
	assert.Equal(t, 0.0, scores.Overall())
}

func TestScoreAgreementBoost(t *testing.T) {
	s := New(Weights{})
	res := &extract.Result{
		Fields: map[string]extract.Candidate{
			invoice.FieldInvoiceDate: {Value: "15/03/2024", Confidence: 0.7, Cues: 2},
		},
		Attempted: []string{invoice.FieldInvoiceDate},
	}

	scores := s.Score(res)
	assert.InDelta(t, 0.85, scores[invoice.FieldInvoiceDate], 1e-9, "one extra cue adds the boost")
}

func TestScoreBoostNeverExceedsOne(t *testing.T) {
	s := New(Weights{})
	res := &extract.Result{
		Fields: map[string]extract.Candidate{
			invoice.FieldInvoiceDate: {Value: "15/03/2024", Confidence: 0.95, Cues: 5},
		},
		Attempted: []string{invoice.FieldInvoiceDate},
	}

	scores := s.Score(res)
	assert.LessOrEqual(t, scores[invoice.FieldInvoiceDate], 1.0)
	assert.Equal(t, 1.0, scores[invoice.FieldInvoiceDate])
}

func TestScoreFormatPenalty(t *testing.T) {
	s := New(Weights{})

	tests := []struct {
		name  string
		field string
		cand  extract.Candidate
		want  float64
	}{
		{"bad date format", invoice.FieldInvoiceDate, extract.Candidate{Value: "sometime in march", Confidence: 0.8, Cues: 1}, 0.4},
		{"good date format", invoice.FieldInvoiceDate, extract.Candidate{Value: "15/03/2024", Confidence: 0.8, Cues: 1}, 0.8},
		{"fssai too short", invoice.FieldFSSAINumber, extract.Candidate{Value: "12345", Confidence: 0.9, Cues: 1}, 0.45},
		{"invoice number without digits", invoice.FieldInvoiceNumber, extract.Candidate{Value: "UNKNOWN", Confidence: 0.9, Cues: 1}, 0.45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &extract.Result{
				Fields:    map[string]extract.Candidate{tt.field: tt.cand},
				Attempted: []string{tt.field},
			}
			scores := s.Score(res)
			assert.InDelta(t, tt.want, scores[tt.field], 1e-9)
		})
	}
}

func TestScoreProductsScaleWithCount(t *testing.T) {
	s := New(Weights{})

	makeRes := func(n int) *extract.Result {
		items := make([]invoice.LineItem, n)
		return &extract.Result{
			Fields:    map[string]extract.Candidate{},
			Items:     items,
			Attempted: []string{invoice.FieldProducts},
		}
	}

	assert.InDelta(t, 0.2, s.Score(makeRes(1))[invoice.FieldProducts], 1e-9)
	assert.InDelta(t, 0.6, s.Score(makeRes(3))[invoice.FieldProducts], 1e-9)
	assert.InDelta(t, 0.9, s.Score(makeRes(10))[invoice.FieldProducts], 1e-9, "capped at the product cap")
}

func TestScoreOverallAveragesAttemptedOnly(t *testing.T) {
	s := New(Weights{})
	res := &extract.Result{
		Fields: map[string]extract.Candidate{
			invoice.FieldInvoiceNumber: {Value: "INV-1", Confidence: 0.9, Cues: 1},
		},
		Attempted: []string{invoice.FieldInvoiceNumber, invoice.FieldInvoiceDate},
	}

	scores := s.Score(res)
	require.Contains(t, scores, invoice.FieldInvoiceDate)
	assert.InDelta(t, (0.9+0.0)/2, scores.Overall(), 1e-9)
	_, hasCompany := scores[invoice.FieldCompanyName]
	assert.False(t, hasCompany, "never-attempted fields get no entry")
}

func TestAllScoresClamped(t *testing.T) {
	s := New(Weights{AgreementBoost: 5, FormatPenalty: 0.5})
	res := &extract.Result{
		Fields: map[string]extract.Candidate{
			invoice.FieldCompanyName: {Value: "MILL", Confidence: 0.9, Cues: 4},
		},
		Attempted: []string{invoice.FieldCompanyName},
	}
	for _, v := range s.Score(res) {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}
