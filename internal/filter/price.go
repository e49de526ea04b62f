package filter

// priceRange is one entry of the symbolic price-token table used by the
// homepage search form.
type priceRange struct {
	token string
	min   string
	max   string
}

var priceRanges = []priceRange{
	{"under $500", "", "500"},
	{"$500 - $1,000", "500", "1000"},
	{"$1,000 - $2,000", "1000", "2000"},
	{"$2,000 - $4,000", "2000", "4000"},
	{"$4,000+", "4000", ""},
}

// PriceTokens returns the symbolic tokens in display order.
func PriceTokens() []string {
	tokens := make([]string, 0, len(priceRanges))
	for _, r := range priceRanges {
		tokens = append(tokens, r.token)
	}
	return tokens
}

// ParsePriceRange maps a symbolic price token to its (min, max) bounds.
// Unrecognized tokens, including the empty string, map to unbounded.
func ParsePriceRange(token string) (min, max string) {
	for _, r := range priceRanges {
		if r.token == token {
			return r.min, r.max
		}
	}
	return "", ""
}

// FormatPriceRange is the inverse lookup: it returns the symbolic token for
// an exact (min, max) pair from the table, ok=false when the bounds do not
// correspond to any token.
func FormatPriceRange(min, max string) (string, bool) {
	if min == "" && max == "" {
		return "", false
	}
	for _, r := range priceRanges {
		if r.min == min && r.max == max {
			return r.token, true
		}
	}
	return "", false
}
