package extract

import "strings"

// Role is the semantic meaning assigned to a table column.
type Role int

const (
	RoleUnknown Role = iota
	RoleDescription
	RoleHSN
	RoleQuantity
	RoleWeight
	RoleWeightPerUnit
	RoleRate
	RoleAmount
)

func (r Role) String() string {
	switch r {
	case RoleDescription:
		return "description"
	case RoleHSN:
		return "hsn"
	case RoleQuantity:
		return "quantity"
	case RoleWeight:
		return "weight"
	case RoleWeightPerUnit:
		return "weight_per_unit"
	case RoleRate:
		return "rate"
	case RoleAmount:
		return "amount"
	default:
		return "unknown"
	}
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// ClassifyColumn maps a header cell to its column role. The per-unit check
// runs first: "NET (Kg) PER BAG" is the weight of one bag, not a quantity
// and not the total weight.
func ClassifyColumn(header string) Role {
	h := strings.ToUpper(strings.TrimSpace(header))
	if h == "" {
		return RoleUnknown
	}

	weightish := containsAny(h, "WEIGHT", "WT", "KG", "NET", "QUINTAL", "QTL", "MT", "TON")
	if weightish && containsAny(h, "PER BAG", "PER UNIT", "PER PKG") {
		return RoleWeightPerUnit
	}

	switch {
	case containsAny(h, "QTY", "QUANTITY", "BAGS", "NOS", "PIECES", "PCS", "COUNT"):
		return RoleQuantity
	case weightish:
		return RoleWeight
	case containsAny(h, "RATE", "PRICE", "/KG", "/QTL", "/BAG"):
		return RoleRate
	case containsAny(h, "AMOUNT", "TOTAL", "VALUE", "AMT"):
		return RoleAmount
	case containsAny(h, "HSN", "SAC"):
		return RoleHSN
	case containsAny(h, "DESC", "ITEM", "PRODUCT", "COMMODITY", "PARTICULARS", "GOODS"):
		return RoleDescription
	}
	return RoleUnknown
}

// assignRoles classifies every header, applying template column overrides
// before the generic rules. The first column claiming a role keeps it.
func assignRoles(headers []string, overrides map[string]Role) []Role {
	roles := make([]Role, len(headers))
	claimed := make(map[Role]bool)

	assign := func(i int, role Role) {
		if role == RoleUnknown || claimed[role] {
			return
		}
		roles[i] = role
		claimed[role] = true
	}

	// Overrides first so e.g. a BAGS column forced to quantity wins over a
	// later QTY column.
	for i, h := range headers {
		upper := strings.ToUpper(strings.TrimSpace(h))
		if role, ok := overrides[upper]; ok {
			assign(i, role)
		}
	}
	for i, h := range headers {
		if roles[i] == RoleUnknown {
			assign(i, ClassifyColumn(h))
		}
	}
	return roles
}
