package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"freeskill/internal/apperror"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler responds with service health information.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a HealthHandler. db may be nil.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// RegisterRoutes registers GET /healthcheck.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/healthcheck", h.Handle)
}

func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			return apperror.Wrap(fiber.StatusServiceUnavailable, "Database unavailable.", err)
		}
	}
	return respond(c, fiber.StatusOK, fiber.Map{"status": "ok"}, "Health check passed.")
}
