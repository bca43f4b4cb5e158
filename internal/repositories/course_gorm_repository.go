package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freeskill/internal/models"
)

// GORMCourseRepository is a GORM implementation of CourseRepository.
type GORMCourseRepository struct {
	db *gorm.DB
}

// NewGORMCourseRepository creates a new instance of GORMCourseRepository.
func NewGORMCourseRepository(db *gorm.DB) *GORMCourseRepository {
	return &GORMCourseRepository{
		db: db,
	}
}

// Create creates a new course in the database.
func (r *GORMCourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", translate(err))
	}
	return nil
}

// GetOwned retrieves a course by ID if it was created by creatorID.
func (r *GORMCourseRepository) GetOwned(ctx context.Context, id, creatorID string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ? AND creator_id = ?", id, creatorID).Error; err != nil {
		return nil, fmt.Errorf("failed to get course %s: %w", id, translate(err))
	}
	return &course, nil
}

// ListByCreator returns the courses of creatorID, newest first.
func (r *GORMCourseRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.Course, error) {
	courses := []models.Course{}
	if err := r.db.WithContext(ctx).Where("creator_id = ?", creatorID).Order("created_at desc").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// Update writes the title and description of an owned course.
func (r *GORMCourseRepository) Update(ctx context.Context, course *models.Course) error {
	res := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ? AND creator_id = ?", course.ID, course.CreatorID).
		Updates(map[string]any{"title": course.Title, "description": course.Description})
	if res.Error != nil {
		return fmt.Errorf("failed to update course: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("course with ID %s not found for update: %w", course.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes an owned course and its videos.
func (r *GORMCourseRepository) Delete(ctx context.Context, id, creatorID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Course{}, "id = ? AND creator_id = ?", id, creatorID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete course: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("course with ID %s not found for deletion: %w", id, ErrNotFound)
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Video{}).Error; err != nil {
			return fmt.Errorf("failed to delete videos of course %s: %w", id, err)
		}
		return nil
	})
}

// UpdateProgress stores the derived progress fields of a course.
func (r *GORMCourseRepository) UpdateProgress(ctx context.Context, id string, progress models.CourseProgress) error {
	res := r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Updates(map[string]any{
		"progress":     progress.Progress,
		"is_completed": progress.IsCompleted,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update progress of course %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("course with ID %s not found: %w", id, ErrNotFound)
	}
	return nil
}
