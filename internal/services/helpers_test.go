package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"freeskill/internal/database"
	"freeskill/internal/logging"
	"freeskill/internal/models"
	"freeskill/internal/repositories"
	"freeskill/internal/services"
)

var testTokenConfig = services.TokenConfig{
	AccessSecret:  "access-secret",
	AccessExpiry:  15 * time.Minute,
	RefreshSecret: "refresh-secret",
	RefreshExpiry: 240 * time.Hour,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+uuid.New().String()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

var _ repositories.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SetRefreshToken(ctx context.Context, id string, digest *string) error {
	args := m.Called(ctx, id, digest)
	return args.Error(0)
}

func (m *MockUserRepository) RotateRefreshToken(ctx context.Context, id, oldDigest, newDigest string) error {
	args := m.Called(ctx, id, oldDigest, newDigest)
	return args.Error(0)
}

// MockVideoProvider is a mock implementation of services.VideoProvider
type MockVideoProvider struct {
	mock.Mock
}

func (m *MockVideoProvider) Search(ctx context.Context, query string, maxResults int) ([]models.VideoResult, error) {
	args := m.Called(ctx, query, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VideoResult), args.Error(1)
}

type publishedEvent struct {
	name    string
	payload any
}

// recordingPublisher collects published events in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{name: event, payload: payload})
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.name)
	}
	return out
}

// stack bundles services backed by one SQLite database.
type stack struct {
	users   *repositories.GORMUserRepository
	tokens  *services.TokenService
	auth    *services.AuthService
	courses *services.CourseService
	videos  *services.VideoService
	events  *recordingPublisher
}

func newStack(t *testing.T, opts ...services.TokenOption) *stack {
	t.Helper()
	db := newTestDB(t)
	logger := logging.Discard()
	events := &recordingPublisher{}

	users := repositories.NewGORMUserRepository(db)
	tokens := services.NewTokenService(users, testTokenConfig, logger, opts...)
	courses := services.NewCourseService(repositories.NewGORMCourseRepository(db), repositories.NewGORMVideoRepository(db), events, logger)
	return &stack{
		users:   users,
		tokens:  tokens,
		auth:    services.NewAuthService(users, tokens, events, logger),
		courses: courses,
		videos:  services.NewVideoService(repositories.NewGORMVideoRepository(db), courses, logger),
		events:  events,
	}
}

func (s *stack) register(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := s.auth.Register(context.Background(), services.RegisterInput{
		Username: username,
		Fullname: "User " + username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}
