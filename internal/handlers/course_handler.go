package handlers

import (
	"github.com/gofiber/fiber/v2"

	"freeskill/internal/middleware"
	"freeskill/internal/services"
)

// CourseHandler handles HTTP requests for courses and the videos they contain.
type CourseHandler struct {
	courses *services.CourseService
	videos  *services.VideoService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courses *services.CourseService, videos *services.VideoService) *CourseHandler {
	return &CourseHandler{
		courses: courses,
		videos:  videos,
	}
}

// RegisterRoutes registers the course routes behind auth.
func (h *CourseHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	courses := router.Group("/courses", auth)
	courses.Post("/", h.HandleCreateCourse)
	courses.Get("/", h.HandleListCourses)
	courses.Get("/:courseId", h.HandleGetCourse)
	courses.Put("/:courseId", h.HandleUpdateCourse)
	courses.Delete("/:courseId", h.HandleDeleteCourse)
	courses.Get("/:courseId/progress", h.HandleCourseProgress)
	courses.Post("/:courseId/videos", h.HandleAddVideo)
	courses.Get("/:courseId/videos", h.HandleListVideos)
}

// HandleCreateCourse creates a course owned by the caller.
func (h *CourseHandler) HandleCreateCourse(c *fiber.Ctx) error {
	var req services.CourseInput
	if err := bind(c, &req); err != nil {
		return err
	}
	course, err := h.courses.Create(c.UserContext(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, course, "Course created successfully.")
}

func (h *CourseHandler) HandleListCourses(c *fiber.Ctx) error {
	courses, err := h.courses.List(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, courses, "Courses fetched successfully.")
}

func (h *CourseHandler) HandleGetCourse(c *fiber.Ctx) error {
	course, err := h.courses.Get(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("courseId"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, course, "Course fetched successfully.")
}

func (h *CourseHandler) HandleUpdateCourse(c *fiber.Ctx) error {
	var req services.CourseInput
	if err := bind(c, &req); err != nil {
		return err
	}
	course, err := h.courses.Update(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("courseId"), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, course, "Course updated successfully.")
}

// HandleDeleteCourse deletes a course and its videos.
func (h *CourseHandler) HandleDeleteCourse(c *fiber.Ctx) error {
	if err := h.courses.Delete(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("courseId")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{}, "Course deleted successfully.")
}

func (h *CourseHandler) HandleCourseProgress(c *fiber.Ctx) error {
	progress, err := h.courses.Progress(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("courseId"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, progress, "Course progress fetched successfully.")
}

// HandleAddVideo attaches a provider video to a course.
func (h *CourseHandler) HandleAddVideo(c *fiber.Ctx) error {
	var req services.VideoInput
	if err := bind(c, &req); err != nil {
		return err
	}
	video, err := h.videos.Add(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("courseId"), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, video, "Video added successfully.")
}

func (h *CourseHandler) HandleListVideos(c *fiber.Ctx) error {
	videos, err := h.videos.List(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("courseId"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, videos, "Videos fetched successfully.")
}
