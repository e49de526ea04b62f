// Package notify pushes operational notifications to the marketplace
// operators over Telegram. It is optional: without a bot token every call
// is a no-op.
package notify

import (
	"fmt"
	"log"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewFromEnv builds a notifier from TELEGRAM_BOT_TOKEN and
// TELEGRAM_ADMIN_CHAT_ID. Missing or invalid configuration disables it.
func NewFromEnv() *Notifier {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatRaw := os.Getenv("TELEGRAM_ADMIN_CHAT_ID")
	if token == "" || chatRaw == "" {
		return &Notifier{}
	}

	chatID, err := strconv.ParseInt(chatRaw, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid TELEGRAM_ADMIN_CHAT_ID %q, notifications disabled", chatRaw)
		return &Notifier{}
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("Warning: Telegram bot unavailable, notifications disabled: %v", err)
		return &Notifier{}
	}

	return &Notifier{bot: bot, chatID: chatID}
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.bot != nil
}

func (n *Notifier) send(text string) {
	if !n.Enabled() {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		log.Printf("Error sending Telegram notification: %v", err)
	}
}

// SellerPending announces a new profile waiting for review.
func (n *Notifier) SellerPending(email string) {
	n.send(fmt.Sprintf("New seller awaiting approval: %s", email))
}

// ListingCreated announces a freshly published listing.
func (n *Notifier) ListingCreated(title string, price int) {
	n.send(fmt.Sprintf("New listing published: %s ($%d)", title, price))
}
