package handlers

import (
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"

	"freeskill/internal/metrics"
	"freeskill/internal/middleware"
	"freeskill/internal/services"
)

// AppDeps are the collaborators the HTTP application is assembled from.
type AppDeps struct {
	Logger    *slog.Logger
	AccessLog io.Writer // nil disables request logging

	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	CORSOrigin string
	Cookies    CookieConfig
	DB         Pinger

	Auth          *services.AuthService
	Tokens        *services.TokenService
	Courses       *services.CourseService
	Videos        *services.VideoService
	Search        *services.SearchService
	SearchLimiter middleware.RateLimiter
}

// NewApp builds the Fiber application with every route under /api/v1.
func NewApp(d AppDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "freeskill",
		ErrorHandler: ErrorHandler(d.Logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if d.AccessLog != nil {
		app.Use(fiberlogger.New(fiberlogger.Config{Output: d.AccessLog}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigin,
		AllowCredentials: d.CORSOrigin != "*",
	}))
	if d.Metrics != nil {
		app.Use(middleware.Metrics(d.Metrics))
	}

	api := app.Group("/api/v1")
	NewHealthHandler(d.DB).RegisterRoutes(api)
	if d.Registry != nil {
		api.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(d.Registry)))
	}

	auth := middleware.AuthRequired(d.Tokens)
	NewAuthHandler(d.Auth, d.Tokens, d.Cookies).RegisterRoutes(api, auth)

	// Protected routes (require an access token)
	NewCourseHandler(d.Courses, d.Videos).RegisterRoutes(api, auth)
	NewVideoHandler(d.Videos).RegisterRoutes(api, auth)

	var limit fiber.Handler
	if d.SearchLimiter != nil {
		limit = middleware.RateLimit(d.SearchLimiter)
	}
	NewSearchHandler(d.Search, limit).RegisterRoutes(api, auth)

	return app
}
