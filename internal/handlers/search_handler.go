package handlers

import (
	"github.com/gofiber/fiber/v2"

	"freeskill/internal/services"
)

// SearchHandler serves YouTube searches.
type SearchHandler struct {
	service *services.SearchService
	limit   fiber.Handler
}

// NewSearchHandler creates a new SearchHandler. limit, when not nil, runs before every search.
func NewSearchHandler(service *services.SearchService, limit fiber.Handler) *SearchHandler {
	return &SearchHandler{
		service: service,
		limit:   limit,
	}
}

// RegisterRoutes registers the search route behind auth.
func (h *SearchHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	handlers := []fiber.Handler{auth}
	if h.limit != nil {
		handlers = append(handlers, h.limit)
	}
	router.Get("/youtube/search", append(handlers, h.HandleSearch)...)
}

// HandleSearch returns filtered and ranked videos for the query parameter.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	result, err := h.service.Search(c.UserContext(), c.Query("query"))
	if err != nil {
		return err
	}
	message := "Fresh video search successful."
	if result.Cached {
		message = "Videos fetched from cache."
	}
	return respond(c, fiber.StatusOK, fiber.Map{"videos": result.Videos}, message)
}
