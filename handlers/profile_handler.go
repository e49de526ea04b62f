package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crankslist/internal/approval"
	"crankslist/models"
)

type ProfileHandler struct {
	DB       *gorm.DB
	Approval *approval.Store
}

func NewProfileHandler(db *gorm.DB, approvalStore *approval.Store) *ProfileHandler {
	return &ProfileHandler{DB: db, Approval: approvalStore}
}

// UpdateProfileRequest defines the owner-editable profile fields
type UpdateProfileRequest struct {
	DisplayName       string `json:"display_name"`
	Username          string `json:"username"`
	Phone             string `json:"phone"`
	Location          string `json:"location"`
	Bio               string `json:"bio"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

// GetProfile returns the caller's profile, creating a pending one on first
// access.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}
	email, _ := c.Locals("email").(string)

	profile, err := h.Approval.ProfileFor(userID, email)
	if err != nil {
		log.Printf("failed to load profile for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load profile"})
	}

	return c.JSON(fiber.Map{"data": profile})
}

// UpdateProfile saves the owner-editable fields. Approval fields are never
// writable here.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}
	email, _ := c.Locals("email").(string)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if !validUsername(req.Username) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username may only contain lowercase letters, digits and underscores",
			"field": "username",
		})
	}
	if len(req.Bio) > 500 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Bio must be 500 characters or fewer",
			"field": "bio",
		})
	}

	profile, err := h.Approval.ProfileFor(userID, email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load profile"})
	}

	if req.Username != "" && req.Username != profile.Username {
		var count int64
		if err := h.DB.Model(&models.UserProfile{}).
			Where("username = ? AND user_id <> ?", req.Username, userID).
			Count(&count).Error; err == nil && count > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Username is already taken",
				"field": "username",
			})
		}
	}

	err = h.DB.Model(profile).Updates(map[string]interface{}{
		"display_name":        req.DisplayName,
		"username":            req.Username,
		"phone":               req.Phone,
		"location":            req.Location,
		"bio":                 req.Bio,
		"profile_picture_url": req.ProfilePictureURL,
	}).Error
	if err != nil {
		// The unique index closes the race the pre-check cannot.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Username is already taken",
				"field": "username",
			})
		}
		log.Printf("failed to update profile for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"data": profile})
}

func validUsername(username string) bool {
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
