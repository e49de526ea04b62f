// Package filter computes the visible subset of the bike catalog for a set
// of filter criteria and keeps the criteria in sync with a shareable URL
// query-string representation.
package filter

import (
	"net/url"
	"strconv"
)

// Criteria holds the browse filters. Price bounds are kept as strings so
// that empty and non-numeric input both mean "unbounded" rather than zero.
type Criteria struct {
	Type     string `json:"type"`
	MinPrice string `json:"min_price"`
	MaxPrice string `json:"max_price"`
	Location string `json:"location"`
	Search   string `json:"search"`
}

// IsEmpty reports whether no filter is active.
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// minBound returns the parsed lower bound, ok=false when unbounded.
func (c Criteria) minBound() (int, bool) {
	return parseBound(c.MinPrice)
}

// maxBound returns the parsed upper bound, ok=false when unbounded.
func (c Criteria) maxBound() (int, bool) {
	return parseBound(c.MaxPrice)
}

func parseBound(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Non-numeric input is treated as absent, not as an error.
		return 0, false
	}
	return n, true
}

// ParseQuery derives Criteria from browse-view query parameters. The
// symbolic "price" token is expanded through the fixed range table; explicit
// minPrice/maxPrice parameters take precedence over the token.
func ParseQuery(values url.Values) Criteria {
	c := Criteria{
		Type:     values.Get("type"),
		Location: values.Get("location"),
		Search:   values.Get("search"),
	}

	c.MinPrice, c.MaxPrice = ParsePriceRange(values.Get("price"))

	if v := values.Get("minPrice"); v != "" {
		c.MinPrice = v
	}
	if v := values.Get("maxPrice"); v != "" {
		c.MaxPrice = v
	}
	return c
}

// Query renders the criteria back to query parameters. When the price
// bounds match a symbolic range they are emitted as a single "price" token,
// keeping URLs produced by the homepage search round-trippable. Empty
// criteria produce an empty query string, which is the "clear filters"
// representation.
func (c Criteria) Query() url.Values {
	values := url.Values{}
	if c.Search != "" {
		values.Set("search", c.Search)
	}
	if c.Type != "" {
		values.Set("type", c.Type)
	}
	if token, ok := FormatPriceRange(c.MinPrice, c.MaxPrice); ok {
		values.Set("price", token)
	} else {
		if c.MinPrice != "" {
			values.Set("minPrice", c.MinPrice)
		}
		if c.MaxPrice != "" {
			values.Set("maxPrice", c.MaxPrice)
		}
	}
	if c.Location != "" {
		values.Set("location", c.Location)
	}
	return values
}
