package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freeskill/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *GORMUserRepository) first(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, query, arg).Error; err != nil {
		return nil, fmt.Errorf("failed to get user (%s): %w", query, translate(err))
	}
	return &user, nil
}

// List returns every user ordered by creation time.
func (r *GORMUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile writes the username, fullname and email of user.
func (r *GORMUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"username": user.Username,
		"fullname": user.Fullname,
		"email":    user.Email,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for update: %w", user.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the user and everything they own in one transaction.
func (r *GORMUserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Course{}).Select("id").Where("creator_id = ?", id)
		if err := tx.Where("course_id IN (?)", owned).Delete(&models.Video{}).Error; err != nil {
			return fmt.Errorf("failed to delete videos of user %s: %w", id, err)
		}
		if err := tx.Where("creator_id = ?", id).Delete(&models.Course{}).Error; err != nil {
			return fmt.Errorf("failed to delete courses of user %s: %w", id, err)
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete user %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user with ID %s not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}

// SetRefreshToken overwrites the stored refresh token digest.
func (r *GORMUserRepository) SetRefreshToken(ctx context.Context, id string, digest *string) error {
	var value any = gorm.Expr("NULL")
	if digest != nil {
		value = *digest
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("refresh_token", value)
	if res.Error != nil {
		return fmt.Errorf("failed to store refresh token for user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found: %w", id, ErrNotFound)
	}
	return nil
}

// RotateRefreshToken is a compare-and-swap on the stored digest.
func (r *GORMUserRepository) RotateRefreshToken(ctx context.Context, id, oldDigest, newDigest string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", id, oldDigest).
		Update("refresh_token", newDigest)
	if res.Error != nil {
		return fmt.Errorf("failed to rotate refresh token for user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("refresh token of user %s was already rotated: %w", id, ErrNotFound)
	}
	return nil
}
