package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"freeskill/internal/apperror"
	"freeskill/internal/models"
	"freeskill/internal/repositories"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Fullname string `json:"fullname" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileInput carries the editable profile fields. Empty fields are left unchanged.
type ProfileInput struct {
	Username string `json:"username" validate:"omitempty,min=3,max=30"`
	Fullname string `json:"fullname" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// AuthService handles business logic for accounts and sessions.
type AuthService struct {
	users  repositories.UserRepository
	tokens *TokenService
	events EventPublisher
	logger *slog.Logger
}

// NewAuthService creates a new AuthService. events may be nil.
func NewAuthService(users repositories.UserRepository, tokens *TokenService, events EventPublisher, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		events: events,
		logger: logger,
	}
}

// Register creates an account with a bcrypt hashed password.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Fullname = strings.TrimSpace(in.Fullname)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Fullname == "" || in.Email == "" || in.Password == "" {
		return nil, apperror.BadRequest("All fields are required.")
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, apperror.BadRequest("Password must be at most 72 bytes.")
	}

	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperror.Conflict("Username is already taken.")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.Internal("Failed to register user.", err)
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperror.Conflict("Email is already registered.")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.Internal("Failed to register user.", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("Failed to register user.", err)
	}

	user := &models.User{
		Username: in.Username,
		Fullname: in.Fullname,
		Email:    in.Email,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The unique indexes catch a registration racing the pre-check above.
		if errors.Is(err, repositories.ErrConflict) {
			return nil, apperror.Conflict("User with this email or username already exists.")
		}
		return nil, apperror.Internal("Failed to register user.", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))
	publish(ctx, s.logger, s.events, EventUserRegistered, map[string]string{
		"userId":   user.ID,
		"username": user.Username,
		"email":    user.Email,
	})

	clean := user.Sanitized()
	return &clean, nil
}

// Login checks the password of the account with email and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, TokenPair{}, apperror.BadRequest("Email and password are required.")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, TokenPair{}, apperror.NotFound("User does not exist.")
	}
	if err != nil {
		return nil, TokenPair{}, apperror.Internal("Failed to log in.", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, TokenPair{}, apperror.Unauthorized("Invalid user credentials.")
	}

	pair, err := s.tokens.IssueTokens(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	clean := user.Sanitized()
	return &clean, pair, nil
}

// Logout forgets the stored refresh token so it can no longer be exchanged.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound(MsgUserNotFound)
		}
		return apperror.Internal("Failed to log out.", err)
	}
	return nil
}

// CurrentUser returns the sanitized account of userID.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound(MsgUserNotFound)
	}
	if err != nil {
		return nil, apperror.Internal("Failed to load user.", err)
	}
	clean := user.Sanitized()
	return &clean, nil
}

// ListUsers returns every account without credential material.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperror.Internal("Failed to list users.", err)
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out, nil
}

// UpdateProfile changes the non-empty fields of in on the account of userID.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Fullname = strings.TrimSpace(in.Fullname)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" && in.Fullname == "" && in.Email == "" {
		return nil, apperror.BadRequest("At least one field is required.")
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound(MsgUserNotFound)
	}
	if err != nil {
		return nil, apperror.Internal("Failed to load user.", err)
	}

	if in.Username != "" {
		user.Username = in.Username
	}
	if in.Fullname != "" {
		user.Fullname = in.Fullname
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, apperror.Conflict("Username or email is already in use.")
		}
		return nil, apperror.Internal("Failed to update user.", err)
	}
	clean := user.Sanitized()
	return &clean, nil
}

// DeleteAccount removes the account together with its courses and videos.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound(MsgUserNotFound)
		}
		return apperror.Internal("Failed to delete user.", err)
	}
	s.logger.InfoContext(ctx, "user deleted", slog.String("user_id", userID))
	return nil
}
