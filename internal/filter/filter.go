package filter

import (
	"strings"

	"crankslist/models"
)

// Apply returns the subset of bikes matching every active criterion, in the
// order they were given. Filters are a conjunction applied as type, min
// price, max price, location, keyword search; an empty criterion is a no-op.
// There is no relevance ranking: the catalog's creation-time ordering is
// preserved.
func Apply(bikes []models.Bike, c Criteria) []models.Bike {
	filtered := bikes

	if c.Type != "" {
		filtered = keep(filtered, func(b models.Bike) bool {
			return b.BikeType == c.Type
		})
	}

	if min, ok := c.minBound(); ok {
		filtered = keep(filtered, func(b models.Bike) bool {
			return b.Price >= min
		})
	}

	if max, ok := c.maxBound(); ok {
		filtered = keep(filtered, func(b models.Bike) bool {
			return b.Price <= max
		})
	}

	if c.Location != "" {
		loc := strings.ToLower(c.Location)
		filtered = keep(filtered, func(b models.Bike) bool {
			return strings.Contains(strings.ToLower(b.Location), loc)
		})
	}

	if c.Search != "" {
		q := strings.ToLower(c.Search)
		filtered = keep(filtered, func(b models.Bike) bool {
			return strings.Contains(strings.ToLower(b.Title), q) ||
				strings.Contains(strings.ToLower(b.Description), q) ||
				(b.Brand != nil && strings.Contains(strings.ToLower(*b.Brand), q)) ||
				strings.Contains(strings.ToLower(b.BikeType), q)
		})
	}

	return filtered
}

func keep(bikes []models.Bike, match func(models.Bike) bool) []models.Bike {
	out := make([]models.Bike, 0, len(bikes))
	for _, b := range bikes {
		if match(b) {
			out = append(out, b)
		}
	}
	return out
}
