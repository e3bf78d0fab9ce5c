package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/yourorg/sgbusbot/internal/bot"
	"github.com/yourorg/sgbusbot/internal/cache"
	appdb "github.com/yourorg/sgbusbot/internal/db"
	"github.com/yourorg/sgbusbot/internal/lta"
	"github.com/yourorg/sgbusbot/internal/middleware"
	"github.com/yourorg/sgbusbot/internal/routes"
	"github.com/yourorg/sgbusbot/internal/transit"
)

func main() {
	_ = godotenv.Load()

	app := fiber.New()
	app.Use(logger.New())
	app.Use(middleware.DashboardLogger())

	cache.InitCaches()

	// ============================================================================
	// DB CONNECTION + STATIC DATASET
	// ============================================================================
	db, err := appdb.Connect()
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	for i := 0; ; i++ {
		if err := db.Ping(); err == nil {
			break
		} else if i >= 10 {
			log.Fatalf("db unreachable after %d attempts: %v", i, err)
		} else {
			log.Printf("db ping error: %v (retrying in 5s)", err)
			time.Sleep(5 * time.Second)
		}
	}
	if err := appdb.EnsureSchema(db); err != nil {
		log.Fatalf("ensure schema error: %v", err)
	}

	repo := transit.NewRepo(db)
	if err := repo.LoadStops(); err != nil {
		log.Fatalf("load stops error: %v", err)
	}
	if len(repo.AllStops()) == 0 {
		log.Println("⚠️  Stop dataset is empty - run the importer (cmd/cli) first")
	}

	// ============================================================================
	// TELEGRAM + DATAMALL CLIENTS
	// ============================================================================
	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		log.Fatal("BOT_TOKEN env variable is required")
	}
	accountKey := os.Getenv("LTA_ACCOUNT_KEY")
	if accountKey == "" {
		log.Fatal("LTA_ACCOUNT_KEY env variable is required")
	}

	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Fatalf("telegram auth error: %v", err)
	}
	log.Printf("✅ Authorized on account %s", api.Self.UserName)

	engine := bot.New(bot.NewTelegramGateway(api), lta.NewClient(accountKey), repo)
	routes.Register(app, db, engine)

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("🛑 Shutting down...")

		cache.StopCaches()
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️  Error shutting down server: %v", err)
		}
		if err := db.Close(); err != nil {
			log.Printf("⚠️  Error closing db: %v", err)
		}

		log.Println("✅ Server stopped")
		os.Exit(0)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Listening on :%s", port)
	log.Println("📍 Endpoints:")
	log.Println("   GET  /ping        - liveness probe")
	log.Println("   POST /webhook     - Telegram updates")
	log.Println("   GET  /api/health  - health check")
	log.Println("   GET  /ws/debug    - debug dashboard")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
