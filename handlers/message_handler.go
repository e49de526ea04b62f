package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crankslist/internal/ws"
	"crankslist/models"
)

type MessageHandler struct {
	DB  *gorm.DB
	Hub *ws.Hub
}

func NewMessageHandler(db *gorm.DB, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{DB: db, Hub: hub}
}

// ContactSellerRequest defines the payload for a buyer inquiry
type ContactSellerRequest struct {
	BikeID      uint   `json:"bikeId"`
	BikeTitle   string `json:"bikeTitle"`
	BuyerName   string `json:"buyerName"`
	BuyerEmail  string `json:"buyerEmail"`
	Message     string `json:"message"`
	SellerEmail string `json:"sellerEmail"`
}

// ContactSeller persists a buyer inquiry addressed to a listing's seller.
// The recipient is always resolved from the listing record; the
// client-supplied sellerEmail is only compared against it.
func (h *MessageHandler) ContactSeller(c *fiber.Ctx) error {
	var req ContactSellerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	if req.BikeID == 0 || req.BikeTitle == "" || req.BuyerName == "" ||
		req.BuyerEmail == "" || req.Message == "" || req.SellerEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	var bike models.Bike
	if err := h.DB.First(&bike, req.BikeID).Error; err != nil {
		log.Printf("contact: listing %d lookup failed: %v", req.BikeID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send message"})
	}

	if !strings.EqualFold(req.SellerEmail, bike.SellerEmail) {
		log.Printf("contact: sellerEmail mismatch for listing %d, using stored recipient", bike.ID)
	}

	bikeID := bike.ID
	message := models.Message{
		BikeID:         &bikeID,
		SenderName:     req.BuyerName,
		SenderEmail:    strings.ToLower(req.BuyerEmail),
		RecipientEmail: strings.ToLower(bike.SellerEmail),
		Subject:        "Interest in: " + bike.Title,
		Body:           req.Message,
	}

	if err := h.DB.Create(&message).Error; err != nil {
		log.Printf("contact: failed to persist message: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send message"})
	}

	h.Hub.NotifyInbox(message.RecipientEmail)

	return c.JSON(fiber.Map{
		"success":   true,
		"messageId": message.ID,
	})
}

// GetMessages returns the caller's inbox, newest first, each message joined
// with minimal listing context.
func (h *MessageHandler) GetMessages(c *fiber.Ctx) error {
	email, ok := c.Locals("email").(string)
	if !ok || email == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	messages := []models.Message{}
	err := h.DB.
		Preload("Bike", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "price", "location")
		}).
		Where("recipient_email = ?", email).
		Order("created_at desc").
		Find(&messages).Error
	if err != nil {
		log.Printf("failed to load inbox for %s: %v", email, err)
		messages = []models.Message{}
	}

	return c.JSON(fiber.Map{"data": messages, "count": len(messages)})
}

// MarkRead flips a message to read. The transition is one-way and only the
// recipient may perform it; re-marking a read message changes nothing.
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	email, ok := c.Locals("email").(string)
	if !ok || email == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid message id"})
	}

	var message models.Message
	if err := h.DB.First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Message not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load message"})
	}
	if !strings.EqualFold(message.RecipientEmail, email) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your message"})
	}

	if !message.IsRead {
		result := h.DB.Model(&models.Message{}).
			Where("id = ? AND is_read = ?", message.ID, false).
			Update("is_read", true)
		if result.Error != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update message"})
		}
		if result.RowsAffected > 0 {
			h.Hub.NotifyInbox(message.RecipientEmail)
		}
		message.IsRead = true
	}

	return c.JSON(fiber.Map{"data": message})
}

// UnreadCount returns a fresh unread total for the caller.
func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	email, ok := c.Locals("email").(string)
	if !ok || email == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var count int64
	err := h.DB.Model(&models.Message{}).
		Where("recipient_email = ? AND is_read = ?", email, false).
		Count(&count).Error
	if err != nil {
		log.Printf("failed to count unread for %s: %v", email, err)
		count = 0
	}

	return c.JSON(fiber.Map{"count": count})
}
