package batch

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/invoscan/invoscan/internal/invoice"
)

// FormatResult renders a batch result in the requested format.
func FormatResult(result *Result, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(result)
	default: // text
		return formatText(result), nil
	}
}

type jsonItem struct {
	File   string                    `json:"file"`
	Record *invoice.ExtractionRecord `json:"record,omitempty"`
	Error  string                    `json:"error,omitempty"`
}

type jsonResult struct {
	Documents []jsonItem `json:"documents"`
	Failed    int        `json:"failed"`
	ElapsedMS int64      `json:"elapsed_ms"`
}

func formatJSON(result *Result) (string, error) {
	out := jsonResult{
		Documents: make([]jsonItem, len(result.Items)),
		Failed:    result.Failed,
		ElapsedMS: result.Duration.Milliseconds(),
	}
	for i, item := range result.Items {
		out.Documents[i] = jsonItem{File: item.Filename, Record: item.Record}
		if item.Err != nil {
			out.Documents[i].Error = item.Err.Error()
		}
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	return string(raw), err
}

func formatText(result *Result) string {
	var b strings.Builder
	for i, item := range result.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "# %s\n", item.Filename)
		if item.Err != nil {
			fmt.Fprintf(&b, "  error: %v\n", item.Err)
			continue
		}
		rec := item.Record
		fmt.Fprintf(&b, "  company:  %s\n", rec.CompanyName)
		fmt.Fprintf(&b, "  invoice:  %s\n", rec.InvoiceNumber)
		fmt.Fprintf(&b, "  date:     %s\n", rec.InvoiceDate)
		fmt.Fprintf(&b, "  fssai:    %s\n", rec.FSSAINumber)
		fmt.Fprintf(&b, "  products: %d\n", len(rec.Products))
		fmt.Fprintf(&b, "  overall:  %.2f\n", rec.ConfidenceScores.Overall())
	}
	fmt.Fprintf(&b, "\n%d/%d documents processed in %s (%d failed)\n",
		len(result.Items)-result.Failed, len(result.Items),
		result.Duration.Round(10*time.Millisecond), result.Failed)
	return b.String()
}
