package routes

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/yourorg/sgbusbot/internal/bot"
	"github.com/yourorg/sgbusbot/internal/debug"
	"github.com/yourorg/sgbusbot/internal/handlers"
	"github.com/yourorg/sgbusbot/internal/middleware"
)

// Register wires every HTTP route.
func Register(app *fiber.App, db *sql.DB, b *bot.Bot) {
	// ============================================================================
	// TELEGRAM WEBHOOK
	// ============================================================================
	webhookHandler := handlers.NewWebhookHandler(b)

	app.Get("/ping", handlers.Ping)
	// GET /ping - liveness probe, returns "pong"

	app.Post("/webhook", middleware.WebhookRateLimiter(), webhookHandler.HandleWebhook)
	// POST /webhook - update deliveries from Telegram, always answers 200

	// ============================================================================
	// DIAGNOSTIC API
	// ============================================================================
	api := app.Group("/api")
	api.Use(middleware.StrictRateLimiter())

	healthHandler := handlers.NewHealthHandler(db)
	api.Get("/health", healthHandler.Health)
	// GET /api/health - database, dataset and credential checks

	// ============================================================================
	// DEBUG DASHBOARD WEBSOCKET
	// ============================================================================
	app.Use("/ws/debug", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/debug", websocket.New(func(c *websocket.Conn) {
		debug.HandleWebSocketFiber(c)
	}))
}
