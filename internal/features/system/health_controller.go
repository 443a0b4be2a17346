package system

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger is satisfied by database.MongodbDB.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	DB      Pinger
	Logger  *zap.Logger
	Timeout time.Duration
}

func NewHealthController(db Pinger, logger *zap.Logger) *HealthController {
	return &HealthController{DB: db, Logger: logger, Timeout: 2 * time.Second}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Check if the server is up
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "OK"
// @Router       /health [get]
func (h *HealthController) HealthCheck(c *fiber.Ctx) error {
	return c.SendString("OK")
}

// ReadinessCheck godoc
// @Summary      Readiness Check
// @Description  Check that MongoDB is reachable
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health/ready [get]
func (h *HealthController) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.Timeout)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		h.Logger.Warn("readiness check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unavailable",
			"database": "down",
			"error":    err.Error(),
		})
	}

	return c.JSON(fiber.Map{"status": "ok", "database": "up"})
}
