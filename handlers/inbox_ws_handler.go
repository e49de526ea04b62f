package handlers

import (
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crankslist/internal/ws"
	"crankslist/models"
	"crankslist/utils"
)

type InboxWSHandler struct {
	DB  *gorm.DB
	Hub *ws.Hub
}

func NewInboxWSHandler(db *gorm.DB, hub *ws.Hub) *InboxWSHandler {
	return &InboxWSHandler{DB: db, Hub: hub}
}

// UpgradeMiddleware rejects plain HTTP requests on the websocket route and
// authenticates the upgrade. Browsers cannot set headers on websocket
// handshakes, so the token arrives as a query parameter.
func (h *InboxWSHandler) UpgradeMiddleware(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	claims, err := utils.ParseToken(c.Query("token"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token is invalid"})
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token is invalid"})
	}

	c.Locals("email", strings.ToLower(email))
	return c.Next()
}

// Handler upgrades the connection and ties it into the inbox hub for the
// connection's lifetime.
func (h *InboxWSHandler) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		email, _ := conn.Locals("email").(string)
		if email == "" {
			conn.Close()
			return
		}

		client := ws.NewClient(h.Hub, conn, email, h.countUnread)
		h.Hub.Register <- client

		go client.WritePump()
		client.ReadPump()
	})
}

func (h *InboxWSHandler) countUnread(email string) (int64, error) {
	var count int64
	err := h.DB.Model(&models.Message{}).
		Where("recipient_email = ? AND is_read = ?", email, false).
		Count(&count).Error
	return count, err
}
