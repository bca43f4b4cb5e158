package handlers

import (
	"github.com/gofiber/fiber/v2"

	"freeskill/internal/middleware"
	"freeskill/internal/services"
)

// VideoHandler handles HTTP requests for single course videos.
type VideoHandler struct {
	service *services.VideoService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(service *services.VideoService) *VideoHandler {
	return &VideoHandler{
		service: service,
	}
}

// RegisterRoutes registers the video routes behind auth.
func (h *VideoHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	videos := router.Group("/videos", auth)
	videos.Get("/:videoId", h.HandleGetVideo)
	videos.Delete("/:videoId", h.HandleDeleteVideo)
	videos.Patch("/:videoId/complete", h.HandleMarkCompleted)
	videos.Patch("/:videoId/incomplete", h.HandleMarkIncomplete)
}

func (h *VideoHandler) HandleGetVideo(c *fiber.Ctx) error {
	video, err := h.service.Get(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("videoId"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, video, "Video fetched successfully.")
}

func (h *VideoHandler) HandleDeleteVideo(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("videoId")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{}, "Video deleted successfully.")
}

// HandleMarkCompleted marks a video as watched and updates its course progress.
func (h *VideoHandler) HandleMarkCompleted(c *fiber.Ctx) error {
	video, err := h.service.MarkCompleted(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("videoId"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, video, "Video marked as completed.")
}

// HandleMarkIncomplete undoes HandleMarkCompleted.
func (h *VideoHandler) HandleMarkIncomplete(c *fiber.Ctx) error {
	video, err := h.service.MarkIncomplete(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("videoId"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, video, "Video marked as not completed.")
}
