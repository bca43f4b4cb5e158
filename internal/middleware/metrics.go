package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"freeskill/internal/apperror"
	"freeskill/internal/metrics"
)

// Metrics records request counts and latencies labelled by route pattern.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = apperror.StatusOf(err)
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		path := c.Route().Path
		m.RequestCount.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}
