package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"freeskill/internal/apperror"
	"freeskill/internal/models"
	"freeskill/internal/repositories"
)

// Messages returned to callers by token verification.
const (
	MsgUnauthorized         = "Unauthorized request."
	MsgInvalidAccessToken   = "Invalid access token."
	MsgAccessTokenExpired   = "Access token expired."
	MsgInvalidRefreshToken  = "Invalid refresh token."
	MsgRefreshTokenRotated  = "Refresh token is expired or used."
	MsgUserNotFound         = "User not found."
	msgTokenGenerationError = "Something went wrong while generating tokens."
)

var (
	errTokenExpired = errors.New("token expired")
	errTokenInvalid = errors.New("token invalid")
)

// TokenPair is the access and refresh token issued together on login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenConfig holds the secrets and lifetimes of both token kinds.
type TokenConfig struct {
	AccessSecret  string
	AccessExpiry  time.Duration
	RefreshSecret string
	RefreshExpiry time.Duration
}

// TokenService issues, verifies and rotates JWTs. Only one refresh token per user is
// valid at a time: the one whose digest is stored on the user record.
type TokenService struct {
	users         repositories.UserRepository
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces the time source used for signing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a new TokenService.
func NewTokenService(users repositories.UserRepository, cfg TokenConfig, logger *slog.Logger, opts ...TokenOption) *TokenService {
	s := &TokenService{
		users:         users,
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
		now:           time.Now,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueTokens mints a new pair for user and stores the refresh token, replacing any
// previously stored one.
func (s *TokenService) IssueTokens(ctx context.Context, user *models.User) (TokenPair, error) {
	pair, err := s.sign(user)
	if err != nil {
		return TokenPair{}, err
	}
	digest := tokenDigest(pair.RefreshToken)
	if err := s.users.SetRefreshToken(ctx, user.ID, &digest); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return TokenPair{}, apperror.NotFound(MsgUserNotFound)
		}
		return TokenPair{}, apperror.Internal(msgTokenGenerationError, err)
	}
	return pair, nil
}

// VerifyAccess validates an access token and resolves the user it was issued to.
// The returned user carries no credential material.
func (s *TokenService) VerifyAccess(ctx context.Context, raw string) (*models.User, error) {
	if raw == "" {
		return nil, apperror.Unauthorized(MsgUnauthorized)
	}
	claims, err := s.parse(raw, s.accessSecret)
	if errors.Is(err, errTokenExpired) {
		return nil, apperror.Wrap(http.StatusUnauthorized, MsgAccessTokenExpired, err)
	}
	if err != nil {
		return nil, apperror.Wrap(http.StatusUnauthorized, MsgInvalidAccessToken, err)
	}
	userID, _ := claims["userId"].(string)
	if userID == "" {
		return nil, apperror.Unauthorized(MsgInvalidAccessToken)
	}

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

// Refresh exchanges the current refresh token for a new pair. A token that was
// already rotated out is rejected even though its signature is still valid.
func (s *TokenService) Refresh(ctx context.Context, raw string) (TokenPair, error) {
	if raw == "" {
		return TokenPair{}, apperror.Unauthorized(MsgUnauthorized)
	}
	claims, err := s.parse(raw, s.refreshSecret)
	if err != nil {
		return TokenPair{}, apperror.Wrap(http.StatusUnauthorized, MsgInvalidRefreshToken, err)
	}
	userID, _ := claims["userId"].(string)
	if userID == "" {
		return TokenPair{}, apperror.Unauthorized(MsgInvalidRefreshToken)
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return TokenPair{}, apperror.Unauthorized(MsgInvalidRefreshToken)
	}
	if err != nil {
		return TokenPair{}, apperror.Internal("Failed to load user.", err)
	}

	oldDigest := tokenDigest(raw)
	if user.RefreshToken == nil || subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(oldDigest)) != 1 {
		s.logger.InfoContext(ctx, "rejected stale refresh token", slog.String("user_id", userID))
		return TokenPair{}, apperror.Unauthorized(MsgRefreshTokenRotated)
	}

	pair, err := s.sign(user)
	if err != nil {
		return TokenPair{}, err
	}
	err = s.users.RotateRefreshToken(ctx, user.ID, oldDigest, tokenDigest(pair.RefreshToken))
	if errors.Is(err, repositories.ErrNotFound) {
		// Lost the race against a concurrent refresh or logout.
		return TokenPair{}, apperror.Unauthorized(MsgRefreshTokenRotated)
	}
	if err != nil {
		return TokenPair{}, apperror.Internal(msgTokenGenerationError, err)
	}
	return pair, nil
}

func (s *TokenService) sign(user *models.User) (TokenPair, error) {
	now := s.now()
	access, err := s.signClaims(user, now, s.accessExpiry, s.accessSecret)
	if err != nil {
		return TokenPair{}, apperror.Internal(msgTokenGenerationError, err)
	}
	refresh, err := s.signClaims(user, now, s.refreshExpiry, s.refreshSecret)
	if err != nil {
		return TokenPair{}, apperror.Internal(msgTokenGenerationError, err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) signClaims(user *models.User, now time.Time, ttl time.Duration, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":   user.ID,
		"email":    user.Email,
		"username": user.Username,
		"fullname": user.Fullname,
		"jti":      uuid.New().String(),
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// parse checks the signature with secret and the expiry against the service clock.
func (s *TokenService) parse(raw string, secret []byte) (jwt.MapClaims, error) {
	parser := &jwt.Parser{SkipClaimsValidation: true}
	token, err := parser.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errTokenInvalid, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errTokenInvalid
	}
	if !claims.VerifyExpiresAt(s.now().Unix(), true) {
		return nil, errTokenExpired
	}
	return claims, nil
}

// tokenDigest is the form in which refresh tokens are persisted.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
