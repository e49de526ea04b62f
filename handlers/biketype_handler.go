package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crankslist/models"
)

type BikeTypeHandler struct {
	DB *gorm.DB
}

func NewBikeTypeHandler(db *gorm.DB) *BikeTypeHandler {
	return &BikeTypeHandler{DB: db}
}

// GetBikeTypes returns the category list in display order.
func (h *BikeTypeHandler) GetBikeTypes(c *fiber.Ctx) error {
	var types []models.BikeType
	if err := h.DB.Order("sort_order asc").Find(&types).Error; err != nil {
		log.Printf("failed to load bike types: %v", err)
		types = []models.BikeType{}
	}

	return c.JSON(fiber.Map{"data": types})
}
