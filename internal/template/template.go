// Package template classifies invoice layouts by their table header
// structure. Templates are purely structural: they carry header cue sets and
// column role overrides, never company-specific identifiers.
package template

// Variant is one concrete header arrangement a template matches. Confidence
// is the score awarded when every header is present; partial matches scale
// linearly.
type Variant struct {
	Headers    []string `yaml:"headers"`
	Confidence float64  `yaml:"confidence"`

	// Column role overrides for layouts where the role is not obvious from
	// the header name (e.g. BAGS acting as the quantity column).
	QuantityColumn string `yaml:"quantity_column,omitempty"`
	WeightColumn   string `yaml:"weight_column,omitempty"`
	BagColumn      string `yaml:"bag_column,omitempty"`
}

// Template is a named family of header variants.
type Template struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Variants    []Variant `yaml:"variants"`
}

// GenericName is the fallback template applied when nothing else matches.
const GenericName = "generic"

// Builtin returns the built-in template set, registered in fixed order. The
// generic fallback is always last.
func Builtin() []*Template {
	return []*Template{
		{
			Name:        "pattern_a",
			Description: "description + HSN + quantity + weight + rate + amount",
			Variants: []Variant{
				{Headers: []string{"DESCRIPTION", "HSN", "QUANTITY", "WEIGHT", "RATE", "AMOUNT"}, Confidence: 0.9},
				{Headers: []string{"DESCRIPTION OF GOODS", "HSN", "QTY", "WEIGHT", "RATE", "AMOUNT"}, Confidence: 0.9},
				{Headers: []string{"GOODS DESCRIPTION", "HSN/SAC", "QTY", "WEIGHT", "RATE", "AMOUNT"}, Confidence: 0.9},
				{Headers: []string{"GOODS", "HSN CODE", "QUANTITY", "WEIGHT", "RATE", "AMOUNT"}, Confidence: 0.9},
				{Headers: []string{"DESCRIPTION", "HSN", "BAGS", "WEIGHT", "RATE", "AMOUNT"}, Confidence: 0.9, QuantityColumn: "BAGS", WeightColumn: "WEIGHT"},
				{Headers: []string{"DESCRIPTION", "HSN", "BAGS", "QUINTAL", "RATE", "AMOUNT"}, Confidence: 0.9, QuantityColumn: "BAGS", WeightColumn: "QUINTAL"},
			},
		},
		{
			Name:        "pattern_b",
			Description: "simple description + quantity + rate + amount, no HSN",
			Variants: []Variant{
				{Headers: []string{"DESCRIPTION", "QUANTITY", "RATE", "AMOUNT"}, Confidence: 0.9},
				{Headers: []string{"ITEM", "QTY", "RATE", "AMOUNT"}, Confidence: 0.9},
				{Headers: []string{"PARTICULARS", "QUANTITY", "RATE", "VALUE"}, Confidence: 0.9},
				{Headers: []string{"GOODS", "QTY", "PRICE", "TOTAL"}, Confidence: 0.9},
				{Headers: []string{"PRODUCT", "QUANTITY", "PRICE", "TOTAL"}, Confidence: 0.9},
			},
		},
		{
			Name:        "pattern_c",
			Description: "batch/lot layouts with extra tracking columns",
			Variants: []Variant{
				{Headers: []string{"DESCRIPTION", "HSN", "BATCH", "NET", "QUANTITY", "WEIGHT", "RATE"}, Confidence: 0.9},
				{Headers: []string{"PRODUCT", "HSN/SAC", "LOT", "QTY", "WEIGHT", "RATE", "AMOUNT"}, Confidence: 0.9},
				{Headers: []string{"DESCRIPTION", "HSN", "BATCH", "NET", "BAGS", "WEIGHT", "RATE"}, Confidence: 0.9, QuantityColumn: "BAGS", WeightColumn: "WEIGHT"},
			},
		},
		{
			Name:        "pattern_d",
			Description: "bag/pkg layouts with separate bag and quantity columns",
			Variants: []Variant{
				{Headers: []string{"DESCRIPTION", "HSN/SAC", "BATCH", "BAG", "PKG", "QUANTITY", "RATE", "PER", "AMOUNT"}, Confidence: 0.95, QuantityColumn: "QUANTITY", BagColumn: "BAG"},
				{Headers: []string{"DESCRIPTION OF GOODS", "HSN/SAC", "BATCH", "BAG", "PKG", "QUANTITY", "RATE", "PER", "AMOUNT"}, Confidence: 0.95, QuantityColumn: "QUANTITY", BagColumn: "BAG"},
				{Headers: []string{"SR", "DESCRIPTION", "HSN/SAC", "BATCH", "BAG", "PKG", "QUANTITY", "RATE", "PER", "AMOUNT"}, Confidence: 0.95, QuantityColumn: "QUANTITY", BagColumn: "BAG"},
				{Headers: []string{"DESCRIPTION", "HSN/SAC", "BAG", "PKG", "QUANTITY", "RATE", "PER", "AMOUNT"}, Confidence: 0.95, QuantityColumn: "QUANTITY", BagColumn: "BAG"},
				{Headers: []string{"DESCRIPTION", "HSN/SAC", "BAG", "PKG", "QUANTITY", "RATE", "PER"}, Confidence: 0.95, QuantityColumn: "QUANTITY", BagColumn: "BAG"},
			},
		},
		{
			Name:        GenericName,
			Description: "fallback for common invoice structures",
			Variants: []Variant{
				{Headers: []string{"DESCRIPTION", "QUANTITY", "RATE", "AMOUNT"}, Confidence: 0.7},
				{Headers: []string{"ITEM", "QTY", "PRICE", "VALUE"}, Confidence: 0.7},
				{Headers: []string{"GOODS", "QUANTITY", "PRICE", "TOTAL"}, Confidence: 0.7},
			},
		},
	}
}
