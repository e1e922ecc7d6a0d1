package extract

import (
	"regexp"
	"strings"

	"github.com/invoscan/invoscan/internal/invoice"
	"github.com/invoscan/invoscan/internal/template"
)

// Table is one detected tabular region: a header row plus data rows of
// raw cells.
type Table struct {
	Headers []string
	Roles   []Role
	Rows    [][]string
}

// headerKeywords are the cues used to locate a product table when no
// explicit table markers are present.
var headerKeywords = []string{
	"DESCRIPTION", "QUANTITY", "QTY", "RATE", "AMOUNT", "PRICE",
	"ITEM", "PRODUCT", "GOODS", "HSN", "SAC", "BAGS", "WEIGHT", "QUINTAL",
}

// endOfTableMarkers terminate row capture.
var endOfTableMarkers = []string{"TOTAL", "GRAND TOTAL", "SUBTOTAL", "AMOUNT IN WORDS"}

const (
	// maxTableRows bounds row capture after the header line.
	maxTableRows = 20
	// minHeaderHits is how many keywords a line needs to count as a header.
	minHeaderHits = 2
)

var tableMarkerRe = regexp.MustCompile(`\n-+\s*TABLE\s+\d+\.\d+\s*-+\n`)
var multiSpaceRe = regexp.MustCompile(`\s{2,}|\t+`)

// FindTables locates tabular regions in document text. Explicitly marked
// tables ("--- TABLE i.j ---" sections with " | " cells) are preferred;
// otherwise the line with the densest header-keyword cluster starts a table
// and subsequent lines are captured as rows.
func FindTables(text string) []Table {
	if tables := parseMarkedTables(text); len(tables) > 0 {
		return tables
	}
	if t := locateTableHeuristically(text); t != nil {
		return []Table{*t}
	}
	return nil
}

func parseMarkedTables(text string) []Table {
	sections := tableMarkerRe.Split(text, -1)
	if len(sections) < 2 {
		return nil
	}

	var tables []Table
	for _, section := range sections[1:] {
		var rows [][]string
		for _, line := range strings.Split(strings.TrimSpace(section), "\n") {
			if strings.Contains(line, " | ") {
				rows = append(rows, splitCells(line))
			}
		}
		if len(rows) > 0 {
			tables = append(tables, Table{Headers: rows[0], Rows: rows[1:]})
		}
	}
	return tables
}

func locateTableHeuristically(text string) *Table {
	lines := strings.Split(text, "\n")

	headerIdx := -1
	bestHits := 0
	for i, line := range lines {
		upper := strings.ToUpper(line)
		hits := 0
		for _, kw := range headerKeywords {
			if strings.Contains(upper, kw) {
				hits++
			}
		}
		if hits >= minHeaderHits && hits > bestHits {
			headerIdx = i
			bestHits = hits
		}
	}
	if headerIdx < 0 {
		return nil
	}

	t := &Table{Headers: splitCells(lines[headerIdx])}
	emptyRun := 0
	for i := headerIdx + 1; i < len(lines) && len(t.Rows) < maxTableRows; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			emptyRun++
			if emptyRun > 2 {
				break
			}
			continue
		}
		emptyRun = 0

		upper := strings.ToUpper(line)
		ended := false
		for _, marker := range endOfTableMarkers {
			if strings.Contains(upper, marker) {
				ended = true
				break
			}
		}
		if ended {
			break
		}
		t.Rows = append(t.Rows, splitCells(line))
	}
	return t
}

// isTotalsRow filters summary rows out of line-item capture.
func isTotalsRow(row []string) bool {
	for _, cell := range row {
		upper := strings.ToUpper(cell)
		for _, marker := range endOfTableMarkers {
			if strings.Contains(upper, marker) {
				return true
			}
		}
	}
	return false
}

// splitCells breaks a table line into cells, preferring the explicit " | "
// delimiter and falling back to runs of whitespace.
func splitCells(line string) []string {
	var parts []string
	if strings.Contains(line, " | ") {
		parts = strings.Split(line, " | ")
	} else if strings.Contains(line, "|") {
		parts = strings.Split(line, "|")
	} else {
		parts = multiSpaceRe.Split(line, -1)
	}
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// LineItems converts a table into line items using the roles assigned to
// its columns. Rows shorter than the header keep whatever cells align and
// leave the rest absent; rows with no usable cell at all are skipped.
func (t *Table) LineItems(variant *template.Variant) []invoice.LineItem {
	overrides := make(map[string]Role)
	if variant != nil {
		switch {
		case variant.QuantityColumn != "":
			overrides[strings.ToUpper(variant.QuantityColumn)] = RoleQuantity
		case variant.BagColumn != "":
			// With no dedicated quantity column the bag count is the quantity.
			overrides[strings.ToUpper(variant.BagColumn)] = RoleQuantity
		}
		if variant.WeightColumn != "" {
			overrides[strings.ToUpper(variant.WeightColumn)] = RoleWeight
		}
	}
	t.Roles = assignRoles(t.Headers, overrides)

	descIdx := -1
	for i, role := range t.Roles {
		if role == RoleDescription {
			descIdx = i
			break
		}
	}

	var items []invoice.LineItem
	for _, row := range t.Rows {
		if isTotalsRow(row) {
			continue
		}
		item := invoice.LineItem{
			GoodsDescription: invoice.NotAvailable,
			HSNSACCode:       invoice.NotAvailable,
			Quantity:         invoice.NotAvailable,
			Weight:           invoice.NotAvailable,
			Rate:             invoice.NotAvailable,
			Amount:           invoice.NotAvailable,
		}
		filled := 0
		for i, cell := range row {
			if i >= len(t.Roles) || cell == "" {
				continue
			}
			switch t.Roles[i] {
			case RoleDescription:
				item.GoodsDescription = cell
			case RoleHSN:
				if hsn := CleanHSN(cell); hsn != "" {
					item.HSNSACCode = hsn
				}
			case RoleQuantity:
				if qty := CleanNumeric(cell); qty != "" {
					item.Quantity = qty
				}
			case RoleWeight:
				item.Weight = cell
				if kg, ok := WeightToKg(cell); ok {
					item.WeightKg = kg
				} else if n := CleanNumeric(cell); n != "" {
					// Bare numbers in a weight column are already kilograms.
					item.Weight = n + " kg"
					if v, ok := parseFloat(n); ok {
						item.WeightKg = v
					}
				}
			case RoleRate:
				if rate := CleanNumeric(cell); rate != "" {
					item.Rate = rate
				}
			case RoleAmount:
				if amt := CleanNumeric(cell); amt != "" {
					item.Amount = amt
				}
			default:
				continue
			}
			filled++
		}

		// A row with no description column still gets one from its first
		// non-empty cell, as long as something numeric aligned.
		if item.GoodsDescription == invoice.NotAvailable && descIdx < 0 && filled > 0 {
			for _, cell := range row {
				if strings.TrimSpace(cell) != "" {
					item.GoodsDescription = strings.TrimSpace(cell)
					break
				}
			}
		}
		if filled == 0 {
			continue
		}
		items = append(items, item)
	}
	return items
}
