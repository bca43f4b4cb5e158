package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"freeskill/internal/apperror"
	"freeskill/internal/models"
	"freeskill/internal/repositories"
)

const msgCourseNotFound = "Course not found."

// CourseInput carries the editable fields of a course.
type CourseInput struct {
	Title       string `json:"title" validate:"omitempty,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// CourseService handles business logic related to courses. Every operation is scoped
// to the calling user; other users' courses are reported as not found.
type CourseService struct {
	courses repositories.CourseRepository
	videos  repositories.VideoRepository
	events  EventPublisher
	logger  *slog.Logger
}

// NewCourseService creates a new CourseService. events may be nil.
func NewCourseService(courses repositories.CourseRepository, videos repositories.VideoRepository, events EventPublisher, logger *slog.Logger) *CourseService {
	return &CourseService{
		courses: courses,
		videos:  videos,
		events:  events,
		logger:  logger,
	}
}

// Create creates a course owned by creatorID.
func (s *CourseService) Create(ctx context.Context, creatorID string, in CourseInput) (*models.Course, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, apperror.BadRequest("Title and description are required.")
	}

	course := &models.Course{Title: title, Description: description, CreatorID: creatorID}
	if err := s.courses.Create(ctx, course); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, apperror.Conflict("Course with this title already exists.")
		}
		return nil, apperror.Internal("Failed to create course.", err)
	}
	return course, nil
}

// List returns the courses of creatorID.
func (s *CourseService) List(ctx context.Context, creatorID string) ([]models.Course, error) {
	courses, err := s.courses.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, apperror.Internal("Failed to list courses.", err)
	}
	return courses, nil
}

// Get returns an owned course.
func (s *CourseService) Get(ctx context.Context, creatorID, courseID string) (*models.Course, error) {
	course, err := s.courses.GetOwned(ctx, courseID, creatorID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound(msgCourseNotFound)
	}
	if err != nil {
		return nil, apperror.Internal("Failed to load course.", err)
	}
	return course, nil
}

// Update changes the non-empty fields of in on an owned course.
func (s *CourseService) Update(ctx context.Context, creatorID, courseID string, in CourseInput) (*models.Course, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" && description == "" {
		return nil, apperror.BadRequest("Title or description is required.")
	}

	course, err := s.Get(ctx, creatorID, courseID)
	if err != nil {
		return nil, err
	}
	if title != "" {
		course.Title = title
	}
	if description != "" {
		course.Description = description
	}
	if err := s.courses.Update(ctx, course); err != nil {
		switch {
		case errors.Is(err, repositories.ErrConflict):
			return nil, apperror.Conflict("Course with this title already exists.")
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperror.NotFound(msgCourseNotFound)
		}
		return nil, apperror.Internal("Failed to update course.", err)
	}
	return course, nil
}

// Delete removes an owned course and its videos.
func (s *CourseService) Delete(ctx context.Context, creatorID, courseID string) error {
	err := s.courses.Delete(ctx, courseID, creatorID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound(msgCourseNotFound)
	}
	if err != nil {
		return apperror.Internal("Failed to delete course.", err)
	}
	return nil
}

// Progress reports the completion of an owned course.
func (s *CourseService) Progress(ctx context.Context, creatorID, courseID string) (models.CourseProgress, error) {
	if _, err := s.Get(ctx, creatorID, courseID); err != nil {
		return models.CourseProgress{}, err
	}
	total, completed, err := s.videos.CountByCourse(ctx, courseID)
	if err != nil {
		return models.CourseProgress{}, apperror.Internal("Failed to compute progress.", err)
	}
	return models.ComputeProgress(courseID, total, completed), nil
}

// syncProgress recomputes and stores the progress of course after its videos changed.
func (s *CourseService) syncProgress(ctx context.Context, course *models.Course) error {
	total, completed, err := s.videos.CountByCourse(ctx, course.ID)
	if err != nil {
		return apperror.Internal("Failed to compute progress.", err)
	}
	progress := models.ComputeProgress(course.ID, total, completed)
	if err := s.courses.UpdateProgress(ctx, course.ID, progress); err != nil {
		return apperror.Internal("Failed to update progress.", err)
	}

	wasCompleted := course.IsCompleted
	course.Progress = progress.Progress
	course.IsCompleted = progress.IsCompleted
	if progress.IsCompleted && !wasCompleted {
		s.logger.InfoContext(ctx, "course completed", slog.String("course_id", course.ID))
		publish(ctx, s.logger, s.events, EventCourseCompleted, map[string]any{
			"courseId":    course.ID,
			"creatorId":   course.CreatorID,
			"title":       course.Title,
			"totalVideos": progress.TotalVideos,
		})
	}
	return nil
}
