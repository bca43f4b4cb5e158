package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freeskill/internal/models"
)

// GORMVideoRepository is a GORM implementation of VideoRepository.
type GORMVideoRepository struct {
	db *gorm.DB
}

// NewGORMVideoRepository creates a new instance of GORMVideoRepository.
func NewGORMVideoRepository(db *gorm.DB) *GORMVideoRepository {
	return &GORMVideoRepository{
		db: db,
	}
}

// Create adds a video to its course.
func (r *GORMVideoRepository) Create(ctx context.Context, video *models.Video) error {
	if video.ID == "" {
		video.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return fmt.Errorf("failed to create video: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a single video by its ID.
func (r *GORMVideoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).First(&video, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get video %s: %w", id, translate(err))
	}
	return &video, nil
}

// ListByCourse returns the videos of a course in their display order.
func (r *GORMVideoRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Video, error) {
	videos := []models.Video{}
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position asc").Order("created_at asc").
		Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list videos of course %s: %w", courseID, err)
	}
	return videos, nil
}

// Delete deletes a video by its ID.
func (r *GORMVideoRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Video{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete video: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("video with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// SetCompleted flags a video as watched or not.
func (r *GORMVideoRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	res := r.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", id).Update("is_completed", completed)
	if res.Error != nil {
		return fmt.Errorf("failed to update video %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("video with ID %s not found for update: %w", id, ErrNotFound)
	}
	return nil
}

// CountByCourse counts all and completed videos of a course.
func (r *GORMVideoRepository) CountByCourse(ctx context.Context, courseID string) (int, int, error) {
	var counts struct {
		Total     int64
		Completed int64
	}
	err := r.db.WithContext(ctx).Model(&models.Video{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0) AS completed").
		Where("course_id = ?", courseID).
		Scan(&counts).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count videos of course %s: %w", courseID, err)
	}
	return int(counts.Total), int(counts.Completed), nil
}
