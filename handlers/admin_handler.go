package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crankslist/internal/approval"
	"crankslist/models"
)

type AdminHandler struct {
	DB       *gorm.DB
	Approval *approval.Store
}

func NewAdminHandler(db *gorm.DB, approvalStore *approval.Store) *AdminHandler {
	return &AdminHandler{DB: db, Approval: approvalStore}
}

// RejectRequest defines the payload for a rejection decision
type RejectRequest struct {
	Reason string `json:"reason"`
}

// RequireAdmin blocks callers without a row in the admins table.
func (h *AdminHandler) RequireAdmin(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var count int64
	if err := h.DB.Model(&models.Admin{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		log.Printf("admin check failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin privileges required"})
	}
	if count == 0 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin privileges required"})
	}

	return c.Next()
}

// GetUsers returns every seller profile partitioned by approval status.
func (h *AdminHandler) GetUsers(c *fiber.Ctx) error {
	var profiles []models.UserProfile
	if err := h.DB.Order("created_at desc").Find(&profiles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load users"})
	}

	pending := []models.UserProfile{}
	approved := []models.UserProfile{}
	rejected := []models.UserProfile{}
	for _, p := range profiles {
		switch p.ApprovalStatus {
		case models.ApprovalApproved:
			approved = append(approved, p)
		case models.ApprovalRejected:
			rejected = append(rejected, p)
		default:
			pending = append(pending, p)
		}
	}

	return c.JSON(fiber.Map{
		"pending":  pending,
		"approved": approved,
		"rejected": rejected,
	})
}

// ApproveUser moves a pending profile to approved.
func (h *AdminHandler) ApproveUser(c *fiber.Ctx) error {
	adminID, _ := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile id"})
	}

	if err := h.Approval.Approve(uint(id), adminID); err != nil {
		switch {
		case errors.Is(err, approval.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		case errors.Is(err, approval.ErrAlreadyDecided):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Profile has already been rejected"})
		default:
			log.Printf("failed to approve profile %d: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to approve user"})
		}
	}

	return c.JSON(fiber.Map{"message": "User approved"})
}

// RejectUser moves a pending profile to rejected with an optional reason.
func (h *AdminHandler) RejectUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile id"})
	}

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if err := h.Approval.Reject(uint(id), req.Reason); err != nil {
		switch {
		case errors.Is(err, approval.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		case errors.Is(err, approval.ErrAlreadyDecided):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Profile has already been approved"})
		default:
			log.Printf("failed to reject profile %d: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reject user"})
		}
	}

	return c.JSON(fiber.Map{"message": "User rejected"})
}
