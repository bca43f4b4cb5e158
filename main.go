package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"freeskill/internal/config"
	"freeskill/internal/database"
	"freeskill/internal/handlers"
	"freeskill/internal/logging"
	"freeskill/internal/metrics"
	"freeskill/internal/middleware"
	"freeskill/internal/repositories"
	"freeskill/internal/services"
	"freeskill/internal/youtube"
	"freeskill/pkg/rabbitmq"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}

// application is the assembled service together with the resources it owns.
type application struct {
	app     *fiber.App
	janitor *repositories.GORMSearchCache
	events  *rabbitmq.Client
	closers []func() error
}

func (a *application) close(logger *slog.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("failed to release resource", slog.Any("error", err))
		}
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	a, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close(logger)

	if a.janitor != nil {
		go runJanitor(ctx, a.janitor, janitorInterval, logger)
	}
	if a.events != nil {
		if err := a.events.Consume(ctx, rabbitmq.LogHandler(logger)); err != nil {
			logger.Warn("failed to start event consumer", slog.Any("error", err))
		}
	}

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", cfg.AppPort))
		listenErr <- a.app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	if err := a.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}

func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	a := &application{}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	a.closers = append(a.closers, sqlDB.Close)
	if err := database.Migrate(db); err != nil {
		a.close(logger)
		return nil, err
	}

	var cache repositories.SearchCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			a.close(logger)
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		cache = repositories.NewRedisSearchCache(client, cfg.SearchCacheTTL, "")
		logger.Info("search cache backed by redis", slog.String("addr", cfg.RedisAddr))
	} else {
		sqlCache := repositories.NewGORMSearchCache(db, cfg.SearchCacheTTL)
		a.janitor = sqlCache
		cache = sqlCache
		logger.Info("search cache backed by database")
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
		if err != nil {
			logger.Warn("activity events disabled", slog.Any("error", err))
		} else {
			a.events = client
			a.closers = append(a.closers, client.Close)
			publisher = client
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	users := repositories.NewGORMUserRepository(db)
	videoRepo := repositories.NewGORMVideoRepository(db)
	tokens := services.NewTokenService(users, services.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		AccessExpiry:  cfg.AccessTokenExpiry,
		RefreshSecret: cfg.RefreshTokenSecret,
		RefreshExpiry: cfg.RefreshTokenExpiry,
	}, logger)
	courses := services.NewCourseService(repositories.NewGORMCourseRepository(db), videoRepo, publisher, logger)
	provider := youtube.NewClient(cfg.YouTubeBaseURL, cfg.YouTubeAPIKey, cfg.YouTubeTimeout)
	if cfg.YouTubeAPIKey == "" {
		logger.Warn("YOUTUBE_API_KEY is not set, searches will fail")
	}

	a.app = handlers.NewApp(handlers.AppDeps{
		Logger:     logger,
		AccessLog:  os.Stdout,
		Registry:   registry,
		Metrics:    m,
		CORSOrigin: cfg.CORSOrigin,
		Cookies: handlers.CookieConfig{
			Secure:        cfg.CookieSecure,
			AccessExpiry:  cfg.AccessTokenExpiry,
			RefreshExpiry: cfg.RefreshTokenExpiry,
		},
		DB:            sqlDB,
		Auth:          services.NewAuthService(users, tokens, publisher, logger),
		Tokens:        tokens,
		Courses:       courses,
		Videos:        services.NewVideoService(videoRepo, courses, logger),
		Search:        services.NewSearchService(cache, provider, m, logger),
		SearchLimiter: middleware.NewRateLimiter(cfg.SearchRateLimit, cfg.SearchRateWindow),
	})
	return a, nil
}

// runJanitor purges expired search cache rows until ctx is done.
func runJanitor(ctx context.Context, cache *repositories.GORMSearchCache, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := cache.Purge(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("search cache purge failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				logger.Info("purged expired search cache entries", slog.Int64("count", n))
			}
		}
	}
}
