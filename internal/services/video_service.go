package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"freeskill/internal/apperror"
	"freeskill/internal/models"
	"freeskill/internal/repositories"
)

const msgVideoNotFound = "Video not found."

// VideoInput carries the provider video attached to a course.
type VideoInput struct {
	VideoID      string `json:"videoId" validate:"required,max=64"`
	Title        string `json:"title" validate:"required,max=255"`
	Thumbnail    string `json:"thumbnail" validate:"omitempty,url"`
	Duration     string `json:"duration"`
	ChannelTitle string `json:"channelTitle"`
	Order        int    `json:"order" validate:"gte=0"`
}

// VideoService handles business logic related to course videos.
type VideoService struct {
	videos  repositories.VideoRepository
	courses *CourseService
	logger  *slog.Logger
}

// NewVideoService creates a new VideoService.
func NewVideoService(videos repositories.VideoRepository, courses *CourseService, logger *slog.Logger) *VideoService {
	return &VideoService{
		videos:  videos,
		courses: courses,
		logger:  logger,
	}
}

// Add attaches a video to an owned course. Without an explicit order the video is
// appended after the existing ones.
func (s *VideoService) Add(ctx context.Context, userID, courseID string, in VideoInput) (*models.Video, error) {
	if strings.TrimSpace(in.VideoID) == "" || strings.TrimSpace(in.Title) == "" {
		return nil, apperror.BadRequest("Video id and title are required.")
	}
	course, err := s.courses.Get(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	order := in.Order
	if order <= 0 {
		total, _, err := s.videos.CountByCourse(ctx, course.ID)
		if err != nil {
			return nil, apperror.Internal("Failed to add video.", err)
		}
		order = total + 1
	}

	video := &models.Video{
		VideoID:      strings.TrimSpace(in.VideoID),
		Title:        strings.TrimSpace(in.Title),
		Thumbnail:    in.Thumbnail,
		Duration:     in.Duration,
		ChannelTitle: in.ChannelTitle,
		CourseID:     course.ID,
		Order:        order,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, apperror.Conflict("Video already exists in this course.")
		}
		return nil, apperror.Internal("Failed to add video.", err)
	}
	if err := s.courses.syncProgress(ctx, course); err != nil {
		return nil, err
	}
	return video, nil
}

// List returns the videos of an owned course in display order.
func (s *VideoService) List(ctx context.Context, userID, courseID string) ([]models.Video, error) {
	if _, err := s.courses.Get(ctx, userID, courseID); err != nil {
		return nil, err
	}
	videos, err := s.videos.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, apperror.Internal("Failed to list videos.", err)
	}
	return videos, nil
}

// Get returns a video of one of the caller's courses.
func (s *VideoService) Get(ctx context.Context, userID, videoID string) (*models.Video, error) {
	video, _, err := s.owned(ctx, userID, videoID)
	return video, err
}

// Delete removes a video and updates the progress of its course.
func (s *VideoService) Delete(ctx context.Context, userID, videoID string) error {
	video, course, err := s.owned(ctx, userID, videoID)
	if err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, video.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound(msgVideoNotFound)
		}
		return apperror.Internal("Failed to delete video.", err)
	}
	return s.courses.syncProgress(ctx, course)
}

// MarkCompleted flags a video as watched.
func (s *VideoService) MarkCompleted(ctx context.Context, userID, videoID string) (*models.Video, error) {
	return s.setCompleted(ctx, userID, videoID, true)
}

// MarkIncomplete reverts MarkCompleted.
func (s *VideoService) MarkIncomplete(ctx context.Context, userID, videoID string) (*models.Video, error) {
	return s.setCompleted(ctx, userID, videoID, false)
}

func (s *VideoService) setCompleted(ctx context.Context, userID, videoID string, completed bool) (*models.Video, error) {
	video, course, err := s.owned(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	if err := s.videos.SetCompleted(ctx, video.ID, completed); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound(msgVideoNotFound)
		}
		return nil, apperror.Internal("Failed to update video.", err)
	}
	video.IsCompleted = completed
	if err := s.courses.syncProgress(ctx, course); err != nil {
		return nil, err
	}
	return video, nil
}

// owned loads a video and its course, failing with 403 when the course belongs to
// another user.
func (s *VideoService) owned(ctx context.Context, userID, videoID string) (*models.Video, *models.Course, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, apperror.NotFound(msgVideoNotFound)
	}
	if err != nil {
		return nil, nil, apperror.Internal("Failed to load video.", err)
	}
	course, err := s.courses.Get(ctx, userID, video.CourseID)
	if apperror.Is(err, http.StatusNotFound) {
		return nil, nil, apperror.Forbidden("You are not allowed to modify this video.")
	}
	if err != nil {
		return nil, nil, err
	}
	return video, course, nil
}
