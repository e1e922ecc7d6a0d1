package batch

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoscan/invoscan/internal/invoice"
)

func sampleResult() *Result {
	return &Result{
		Items: []invoice.BatchItem{
			{
				Filename: "good.pdf",
				Record: &invoice.ExtractionRecord{
					Filename:         "good.pdf",
					CompanyName:      "M/s SHRI GANESH RICE MILL",
					InvoiceNumber:    "INV-2024-001",
					InvoiceDate:      "15/03/2024",
					FSSAINumber:      "12345678901234",
					Products:         []invoice.LineItem{{GoodsDescription: "RICE"}},
					ConfidenceScores: invoice.ConfidenceScores{"overall": 0.82},
				},
			},
			{Filename: "bad.pdf", Err: errors.New("unreadable PDF")},
		},
		Failed:   1,
		Duration: 250 * time.Millisecond,
	}
}

func TestFormatResultJSON(t *testing.T) {
	out, err := FormatResult(sampleResult(), "json")
	require.NoError(t, err)

	var parsed jsonResult
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))

	require.Len(t, parsed.Documents, 2)
	assert.Equal(t, "good.pdf", parsed.Documents[0].File)
	assert.Equal(t, "INV-2024-001", parsed.Documents[0].Record.InvoiceNumber)
	assert.Empty(t, parsed.Documents[0].Error)
	assert.Nil(t, parsed.Documents[1].Record)
	assert.Equal(t, "unreadable PDF", parsed.Documents[1].Error)
	assert.Equal(t, 1, parsed.Failed)
	assert.Equal(t, int64(250), parsed.ElapsedMS)
}

func TestFormatResultText(t *testing.T) {
	out, err := FormatResult(sampleResult(), "text")
	require.NoError(t, err)

	assert.Contains(t, out, "# good.pdf")
	assert.Contains(t, out, "invoice:  INV-2024-001")
	assert.Contains(t, out, "overall:  0.82")
	assert.Contains(t, out, "# bad.pdf")
	assert.Contains(t, out, "error: unreadable PDF")
	assert.Contains(t, out, "1/2 documents processed")
}
