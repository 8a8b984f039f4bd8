package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	pg      *persistence.Postgres
	redis   *persistence.Redis
	metrics *observability.Metrics
}

// NewHealthHandler constructs handler.
func NewHealthHandler(pg *persistence.Postgres, redis *persistence.Redis, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{pg: pg, redis: redis, metrics: metrics}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /health/ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{}
	healthy := true

	if err := h.pg.Ping(c.UserContext()); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}
	if err := h.redis.Ping(c.UserContext()); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	requests, errorCounts := h.metrics.Snapshot()
	payload := fiber.Map{
		"status":   "ok",
		"checks":   checks,
		"requests": requests,
		"errors":   errorCounts,
	}
	if !healthy {
		payload["status"] = "degraded"
		return c.Status(http.StatusServiceUnavailable).JSON(payload)
	}
	return c.JSON(payload)
}
