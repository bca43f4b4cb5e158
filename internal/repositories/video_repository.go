package repositories

import (
	"context"

	"freeskill/internal/models"
)

// VideoRepository defines the interface for video data access.
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id string) (*models.Video, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Video, error)
	Delete(ctx context.Context, id string) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	// CountByCourse returns the number of videos and completed videos of a course.
	CountByCourse(ctx context.Context, courseID string) (total int, completed int, err error)
}
