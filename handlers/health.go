package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/utils/response"
)

// Checker reports whether a dependency is reachable
type Checker func(ctx context.Context) error

// HealthHandler serves liveness and dependency checks
type HealthHandler struct {
	checks map[string]Checker
}

// NewHealthHandler creates a health handler. checks may be empty.
func NewHealthHandler(checks map[string]Checker) *HealthHandler {
	if checks == nil {
		checks = map[string]Checker{}
	}
	return &HealthHandler{checks: checks}
}

// Ping handles GET /ping
func (h *HealthHandler) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Health handles GET /health, probing every registered dependency
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	status := "ok"
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = "degraded"
			continue
		}
		deps[name] = "ok"
	}

	if status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(response.Response{
			Success: false,
			Message: "One or more dependencies are unavailable",
			Data:    fiber.Map{"status": status, "dependencies": deps},
		})
	}
	return response.Success(c, fiber.Map{"status": status, "dependencies": deps})
}
