package handlers

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthResponse reports the state of the system's collaborators.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version,omitempty"`
}

// HealthHandler checks the database and the imported dataset.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates the health check handler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health provides a health check of the system.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	services := make(map[string]string)
	overall := "healthy"

	// ============================================================================
	// CHECK: Database
	// ============================================================================
	if h.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			services["database"] = "unhealthy: " + err.Error()
			overall = "degraded"
		} else {
			services["database"] = "healthy"
		}
	} else {
		services["database"] = "not_initialized"
		overall = "degraded"
	}

	// ============================================================================
	// CHECK: Static dataset
	// ============================================================================
	if h.db != nil {
		var count int
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		err := h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bus_stops").Scan(&count)
		if err != nil {
			services["dataset"] = "unhealthy: " + err.Error()
			overall = "degraded"
		} else if count == 0 {
			services["dataset"] = "empty"
			overall = "degraded"
		} else {
			services["dataset"] = "healthy"
		}
	} else {
		services["dataset"] = "unavailable"
	}

	// ============================================================================
	// CHECK: Credentials present
	// ============================================================================
	if os.Getenv("LTA_ACCOUNT_KEY") == "" {
		services["datamall"] = "missing_account_key"
		overall = "degraded"
	} else {
		services["datamall"] = "configured"
	}
	if os.Getenv("BOT_TOKEN") == "" {
		services["telegram"] = "missing_bot_token"
		overall = "degraded"
	} else {
		services["telegram"] = "configured"
	}

	statusCode := fiber.StatusOK
	if overall == "degraded" {
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(HealthResponse{
		Status:    overall,
		Timestamp: time.Now(),
		Services:  services,
		Version:   os.Getenv("APP_VERSION"),
	})
}
