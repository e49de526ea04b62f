package handlers

import (
	"errors"
	"log"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"crankslist/internal/approval"
	"crankslist/internal/filter"
	"crankslist/internal/notify"
	"crankslist/models"
	"crankslist/utils"
)

const maxListingImages = 5

var validConditions = map[string]bool{
	"excellent":  true,
	"good":       true,
	"fair":       true,
	"needs work": true,
}

type BikeHandler struct {
	DB       *gorm.DB
	Approval *approval.Store
	Notifier *notify.Notifier
}

func NewBikeHandler(db *gorm.DB, approvalStore *approval.Store, notifier *notify.Notifier) *BikeHandler {
	return &BikeHandler{DB: db, Approval: approvalStore, Notifier: notifier}
}

// CreateBikeRequest defines the payload for a new listing
type CreateBikeRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Currency    string   `json:"currency"`
	BikeType    string   `json:"bike_type"`
	Condition   string   `json:"condition"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Brand       *string  `json:"brand"`
	Size        *string  `json:"size"`
	Year        *int     `json:"year"`
	Images      []string `json:"images"`
}

// GetAllBikes returns active listings narrowed by the request's filter
// criteria. The canonical query string for the applied criteria is echoed
// back so clients can keep the address bar shareable.
func (h *BikeHandler) GetAllBikes(c *fiber.Ctx) error {
	var bikes []models.Bike
	if err := h.DB.Where("is_sold = ?", false).Order("created_at desc").Find(&bikes).Error; err != nil {
		log.Printf("failed to load listings: %v", err)
		bikes = []models.Bike{}
	}

	values := url.Values{}
	for key, val := range c.Queries() {
		values.Set(key, val)
	}
	criteria := filter.ParseQuery(values)
	filtered := filter.Apply(bikes, criteria)

	return c.JSON(fiber.Map{
		"data":  filtered,
		"count": len(filtered),
		"query": criteria.Query().Encode(),
	})
}

// GetBike returns a single listing by id. Sold listings stay viewable.
func (h *BikeHandler) GetBike(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	var bike models.Bike
	if err := h.DB.First(&bike, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listing"})
	}

	return c.JSON(fiber.Map{
		"data":           bike,
		"seller_contact": utils.MaskEmail(bike.SellerEmail),
	})
}

// RevealContact returns the seller's unmasked email for a listing.
// Requires an authenticated caller so the reveal is deliberate and traceable.
func (h *BikeHandler) RevealContact(c *fiber.Ctx) error {
	if _, ok := c.Locals("user_id").(uint); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	var bike models.Bike
	if err := h.DB.First(&bike, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listing"})
	}

	return c.JSON(fiber.Map{"seller_email": bike.SellerEmail})
}

// GetMyBikes returns every listing owned by the caller, sold ones included.
func (h *BikeHandler) GetMyBikes(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var bikes []models.Bike
	if err := h.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&bikes).Error; err != nil {
		log.Printf("failed to load listings for user %d: %v", userID, err)
		bikes = []models.Bike{}
	}

	return c.JSON(fiber.Map{"data": bikes, "count": len(bikes)})
}

// CreateBike publishes a new listing. Approval status is re-read from the
// store on every call rather than trusted from the token.
func (h *BikeHandler) CreateBike(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}
	email, _ := c.Locals("email").(string)

	status := h.Approval.StatusFor(userID, email)
	if status != models.ApprovalApproved {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":           "Seller not approved",
			"approval_status": status,
		})
	}

	var req CreateBikeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.BikeType == "" || req.Location == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title, bike type and location are required"})
	}
	if req.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must not be negative"})
	}
	if !validConditions[req.Condition] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid condition"})
	}
	if len(req.Images) > maxListingImages {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A listing may have at most 5 images"})
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	bike := models.Bike{
		UserID:      userID,
		SellerEmail: email,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		BikeType:    req.BikeType,
		Condition:   req.Condition,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Brand:       req.Brand,
		Size:        req.Size,
		Year:        req.Year,
		Images:      pq.StringArray(req.Images),
	}

	if err := h.DB.Create(&bike).Error; err != nil {
		log.Printf("failed to create listing: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create listing"})
	}

	h.Notifier.ListingCreated(bike.Title, bike.Price)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": bike})
}

// SetSoldRequest defines the payload for toggling sold state
type SetSoldRequest struct {
	IsSold bool `json:"is_sold"`
}

// SetSold flips the sold flag on a listing the caller owns.
func (h *BikeHandler) SetSold(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	var req SetSoldRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	var bike models.Bike
	if err := h.DB.First(&bike, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listing"})
	}
	if bike.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not own this listing"})
	}

	if err := h.DB.Model(&bike).Update("is_sold", req.IsSold).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update listing"})
	}

	return c.JSON(fiber.Map{"data": bike})
}
