package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"crankslist/internal/geo"
)

type GeoHandler struct {
	Geo *geo.Client
}

func NewGeoHandler(client *geo.Client) *GeoHandler {
	return &GeoHandler{Geo: client}
}

// ReverseLookup resolves browser coordinates into a city/region pair for
// prefilling the listing-location field.
func (h *GeoHandler) ReverseLookup(c *fiber.Ctx) error {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "lat and lon are required"})
	}

	location, err := h.Geo.Reverse(c.UserContext(), lat, lon)
	if err != nil {
		log.Printf("reverse geocode failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Unable to resolve location"})
	}

	return c.JSON(fiber.Map{"data": location})
}
