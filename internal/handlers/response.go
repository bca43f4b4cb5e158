package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"freeskill/internal/apperror"
)

// Response is the envelope of every API response.
type Response struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
}

func respond(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(Response{
		Success:    status < fiber.StatusBadRequest,
		StatusCode: status,
		Data:       data,
		Message:    message,
	})
}

// ErrorHandler renders errors in the response envelope. Messages of unexpected
// errors are never shown to the caller.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Internal server error."

		var appErr *apperror.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			status = appErr.StatusCode
			message = appErr.Message
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		}

		if status >= fiber.StatusInternalServerError {
			logger.ErrorContext(c.UserContext(), "request failed",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.Int("status", status),
				slog.Any("error", err),
			)
		}
		return respond(c, status, fiber.Map{}, message)
	}
}

var validate = validator.New()

// bind parses the request body into out and validates its struct tags.
func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Wrap(fiber.StatusBadRequest, "Invalid request body.", err)
	}
	if err := validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return apperror.Wrap(fiber.StatusBadRequest, "Validation failed.", err)
		}
		messages := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			messages = append(messages, fmt.Sprintf("field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
		}
		return apperror.BadRequest("Validation failed: " + strings.Join(messages, "; ") + ".")
	}
	return nil
}
