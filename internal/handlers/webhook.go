package handlers

import (
	"encoding/json"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/yourorg/sgbusbot/internal/bot"
	"github.com/yourorg/sgbusbot/internal/debug"
)

// WebhookHandler receives Telegram webhook deliveries.
type WebhookHandler struct {
	bot *bot.Bot
}

// NewWebhookHandler creates the webhook handler over the conversation engine.
func NewWebhookHandler(b *bot.Bot) *WebhookHandler {
	return &WebhookHandler{bot: b}
}

// HandleWebhook processes one update delivery. Always answers 200: Telegram
// redelivers on any other status, and the dispatcher already reported
// whatever went wrong to the chat.
func (h *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(c.Body(), &update); err != nil {
		log.Printf("❌ [WEBHOOK] unparseable update: %v", err)
		return c.SendString("OK")
	}

	traceID := uuid.NewString()
	debug.LogInfo("update received", map[string]interface{}{
		"trace_id":    traceID,
		"update_id":   update.UpdateID,
		"has_message": update.Message != nil,
		"has_tap":     update.CallbackQuery != nil,
	})

	h.bot.HandleUpdate(update)
	return c.SendString("OK")
}

// Ping is the liveness probe.
func Ping(c *fiber.Ctx) error {
	return c.SendString("pong")
}
