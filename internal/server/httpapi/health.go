package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readyProbeTimeout = 2 * time.Second

func healthTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (s *HTTPServer) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": healthTimestamp(),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *HTTPServer) handleLive(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "alive",
		"timestamp": healthTimestamp(),
	})
}

// handleReady checks that both backing stores answer a ping. A failed probe
// returns 503 so orchestrators stop routing traffic here.
func (s *HTTPServer) handleReady(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readyProbeTimeout)
	defer cancel()

	services := fiber.Map{"database": "ok", "redis": "ok"}
	ready := true

	if err := s.db.PingContext(ctx); err != nil {
		services["database"] = "unreachable"
		ready = false
	}
	if err := s.queue.PingContext(ctx); err != nil {
		services["redis"] = "unreachable"
		ready = false
	}

	status := "ready"
	code := fiber.StatusOK
	if !ready {
		status = "not_ready"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"services":  services,
		"timestamp": healthTimestamp(),
	})
}
