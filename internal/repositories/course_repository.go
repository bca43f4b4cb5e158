package repositories

import (
	"context"

	"freeskill/internal/models"
)

// CourseRepository defines the interface for course data access. Every lookup is
// scoped to the creator so that foreign courses are indistinguishable from missing ones.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetOwned(ctx context.Context, id, creatorID string) (*models.Course, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	// Delete removes an owned course and its videos.
	Delete(ctx context.Context, id, creatorID string) error
	UpdateProgress(ctx context.Context, id string, progress models.CourseProgress) error
}
