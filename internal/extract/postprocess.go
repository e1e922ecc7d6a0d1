package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	dateNumericRe  = regexp.MustCompile(`(\d{1,2})[-/.\\](\d{1,2})[-/.\\](\d{2,4})`)
	dateISORe      = regexp.MustCompile(`(\d{4})[-/.\\](\d{1,2})[-/.\\](\d{1,2})`)
	dateWrittenRe  = regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]+)[,\s]+(\d{2,4})`)
	weightValueRe  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-zA-Z]+)`)
	nonAlnumDashRe = regexp.MustCompile(`[^a-zA-Z0-9\-/]`)
	digitsRe       = regexp.MustCompile(`[^0-9]`)
	numericRe      = regexp.MustCompile(`[^0-9.]`)
)

var monthNumbers = map[string]string{
	"january": "01", "february": "02", "march": "03", "april": "04",
	"may": "05", "june": "06", "july": "07", "august": "08",
	"september": "09", "october": "10", "november": "11", "december": "12",
	"jan": "01", "feb": "02", "mar": "03", "apr": "04", "jun": "06",
	"jul": "07", "aug": "08", "sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

// NormalizeDate standardizes a raw date string to DD/MM/YYYY. Handles
// numeric forms with -, /, . or \ separators, ISO YYYY-MM-DD order, and
// written months ("21st June, 2023"). Unparseable input is returned as-is.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}

	if m := dateWrittenRe.FindStringSubmatch(s); m != nil {
		month, ok := monthNumbers[strings.ToLower(m[2])]
		if ok {
			return pad2(m[1]) + "/" + month + "/" + expandYear(m[3])
		}
	}
	if m := dateISORe.FindStringSubmatch(s); m != nil {
		return pad2(m[3]) + "/" + pad2(m[2]) + "/" + m[1]
	}
	if m := dateNumericRe.FindStringSubmatch(s); m != nil {
		return pad2(m[1]) + "/" + pad2(m[2]) + "/" + expandYear(m[3])
	}
	return raw
}

// expandYear widens two-digit years: below 30 is 20xx, 30 and above 19xx.
func expandYear(y string) string {
	if len(y) != 2 {
		return y
	}
	n, err := strconv.Atoi(y)
	if err != nil {
		return y
	}
	if n < 30 {
		return strconv.Itoa(2000 + n)
	}
	return strconv.Itoa(1900 + n)
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// IsDDMMYYYY reports whether a value already matches the export date format.
var ddmmyyyyRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

func IsDDMMYYYY(s string) bool { return ddmmyyyyRe.MatchString(s) }

// WeightToKg converts a weight-with-unit string to kilograms. Quintals are
// 100 kg, tons 1000 kg. Returns ok=false when the value has no recognizable
// numeric part or unit.
func WeightToKg(raw string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	m := weightValueRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	unit := strings.ToLower(m[2])
	switch {
	case strings.Contains(unit, "qtl") || strings.Contains(unit, "quintal"):
		return value * 100, true
	case strings.Contains(unit, "ton") || unit == "mt":
		return value * 1000, true
	case strings.Contains(unit, "kg"):
		return value, true
	}
	return 0, false
}

// CleanInvoiceNumber strips decoration like "#" and surrounding punctuation
// while keeping alphanumerics and the internal -/ separators that are part
// of the number itself.
func CleanInvoiceNumber(raw string) string {
	s := nonAlnumDashRe.ReplaceAllString(raw, "")
	return strings.Trim(s, "-/")
}

// CleanHSN keeps only the digits of an HSN/SAC code.
func CleanHSN(raw string) string {
	return digitsRe.ReplaceAllString(raw, "")
}

// CleanNumeric keeps digits and the decimal point, for quantity-style values.
func CleanNumeric(raw string) string {
	s := numericRe.ReplaceAllString(strings.ReplaceAll(raw, ",", ""), "")
	return strings.Trim(s, ".")
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}
