package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/invoscan/invoscan/internal/invoice"
)

// headerScanLines bounds the company-name search; the seller block sits at
// the top of the page on every layout seen so far.
const headerScanLines = 20

// Chains returns the built-in scalar field rule chains, specific-first.
func Chains() []Chain {
	return []Chain{
		{
			Field: invoice.FieldInvoiceNumber,
			Rules: []Rule{
				{
					Name:       "invoice-no-label",
					Pattern:    regexp.MustCompile(`(?i)invoice\s*(?:no\.?|number|#)\s*[:\-]?\s*([A-Za-z0-9][A-Za-z0-9\-/]*)`),
					Confidence: 0.9,
					Clean:      CleanInvoiceNumber,
				},
				{
					Name:       "bill-no-label",
					Pattern:    regexp.MustCompile(`(?i)\bbill\s*no\.?\s*[:\-]?\s*([A-Za-z0-9][A-Za-z0-9\-/]*)`),
					Confidence: 0.8,
					Clean:      CleanInvoiceNumber,
				},
				{
					Name:       "inv-abbrev",
					Pattern:    regexp.MustCompile(`(?i)\binv\.?\s*no\.?\s*[:\-]?\s*([A-Za-z0-9][A-Za-z0-9\-/]*)`),
					Confidence: 0.6,
					Clean:      CleanInvoiceNumber,
				},
			},
		},
		{
			Field: invoice.FieldInvoiceDate,
			Rules: []Rule{
				{
					Name:       "date-of-invoice-label",
					Pattern:    regexp.MustCompile(`(?i)date\s*of\s*invoice\s*[:\-]?\s*([0-9]{1,4}[-/.\\][0-9]{1,2}[-/.\\][0-9]{2,4})`),
					Confidence: 0.9,
					Clean:      NormalizeDate,
				},
				{
					Name:       "invoice-date-label",
					Pattern:    regexp.MustCompile(`(?i)invoice\s*date\s*[:\-]?\s*([0-9]{1,4}[-/.\\][0-9]{1,2}[-/.\\][0-9]{2,4})`),
					Confidence: 0.9,
					Clean:      NormalizeDate,
				},
				{
					Name:       "dated-label",
					Pattern:    regexp.MustCompile(`(?i)\bdated?\s*[:\-]\s*([0-9]{1,4}[-/.\\][0-9]{1,2}[-/.\\][0-9]{2,4})`),
					Confidence: 0.7,
					Clean:      NormalizeDate,
				},
				{
					Name:       "written-date",
					Pattern:    regexp.MustCompile(`(?i)\b(\d{1,2}(?:st|nd|rd|th)?\s+[A-Za-z]+[,\s]+\d{4})\b`),
					Confidence: 0.6,
					Clean:      NormalizeDate,
				},
				{
					Name:       "bare-date",
					Pattern:    regexp.MustCompile(`\b(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})\b`),
					Confidence: 0.5,
					Clean:      NormalizeDate,
				},
			},
		},
		{
			Field: invoice.FieldFSSAINumber,
			Rules: []Rule{
				{
					Name:       "fssai-label",
					Pattern:    regexp.MustCompile(`(?i)FSSAI\s*(?:no\.?|number\.?|lic(?:ense)?\.?\s*no\.?|#)?\s*:?\s*(\d{10,14})`),
					Confidence: 0.9,
				},
				{
					Name:       "food-license-label",
					Pattern:    regexp.MustCompile(`(?i)(?:FSSAI|Food\s*License)\s*:?\s*(\d{10,14})`),
					Confidence: 0.8,
				},
			},
		},
	}
}

var (
	companyEntityRe = regexp.MustCompile(`(?i)\b((?:[A-Z][A-Za-z.&]*\s+)*(?:RICE\s+MILL|AGRO\s+INDUSTRIES|AGRO|INDUSTRIES|PVT\.?\s*LTD\.?|LIMITED))\b`)
	companyMsRe     = regexp.MustCompile(`(?i)\bM/s\.?\s+((?:[A-Z][A-Za-z.&]*\s+)*(?:RICE\s+MILL|AGRO\s+INDUSTRIES|AGRO|INDUSTRIES|PVT\.?\s*LTD\.?|LIMITED))\b`)
	companyLabelRe  = regexp.MustCompile(`(?i)^(?:company|seller|from)\s*[:\-]\s*(\S.*)$`)
)

// ExtractCompanyName scans the top of the document for the seller name.
// M/s-prefixed matches are preferred, then bare entity-suffix matches, then
// an explicit Company:/Seller:/From: label. Among equally ranked matches the
// longest wins, since truncated names lose trailing entity words.
func ExtractCompanyName(text string) (Candidate, bool) {
	lines := strings.Split(text, "\n")
	if len(lines) > headerScanLines {
		lines = lines[:headerScanLines]
	}

	type scored struct {
		value string
		conf  float64
		cues  int
		rule  string
	}
	var found []scored

	for _, line := range lines {
		if m := companyMsRe.FindStringSubmatch(line); m != nil {
			value := "M/s " + strings.TrimSpace(m[1])
			found = append(found, scored{value: value, conf: 0.9, cues: 2, rule: "company-ms-prefix"})
		}
		if m := companyEntityRe.FindStringSubmatch(line); m != nil {
			found = append(found, scored{value: strings.TrimSpace(m[1]), conf: 0.7, cues: 1, rule: "company-entity-suffix"})
		}
		if m := companyLabelRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			found = append(found, scored{value: strings.TrimSpace(m[1]), conf: 0.6, cues: 1, rule: "company-label"})
		}
	}
	if len(found) == 0 {
		return Candidate{}, false
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].conf != found[j].conf {
			return found[i].conf > found[j].conf
		}
		return len(found[i].value) > len(found[j].value)
	})
	best := found[0]
	return Candidate{Value: best.value, Rule: best.rule, Confidence: best.conf, Cues: best.cues}, true
}
