package repositories

import (
	"context"

	"freeskill/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	// Delete removes the user together with their courses and videos.
	Delete(ctx context.Context, id string) error
	// SetRefreshToken overwrites the stored refresh token digest; nil clears it.
	SetRefreshToken(ctx context.Context, id string, digest *string) error
	// RotateRefreshToken replaces oldDigest with newDigest only if oldDigest is still
	// the stored value. It returns ErrNotFound otherwise.
	RotateRefreshToken(ctx context.Context, id, oldDigest, newDigest string) error
}
