package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the freeskill API.
type Config struct {
	AppPort      string
	LogLevel     string
	CORSOrigin   string
	CookieSecure bool

	DatabaseDriver string
	DatabaseDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitMQURL string

	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration

	YouTubeAPIKey  string
	YouTubeBaseURL string
	YouTubeTimeout time.Duration

	SearchCacheTTL   time.Duration
	SearchRateLimit  int
	SearchRateWindow time.Duration
}

// Load reads configuration from environment variables on top of the defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:      v.GetString("APP_PORT"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		CORSOrigin:   v.GetString("CORS_ORIGIN"),
		CookieSecure: v.GetBool("COOKIE_SECURE"),

		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		RabbitMQURL: v.GetString("RABBITMQ_URL"),

		AccessTokenSecret:  v.GetString("ACCESS_TOKEN_SECRET"),
		AccessTokenExpiry:  v.GetDuration("ACCESS_TOKEN_EXPIRY"),
		RefreshTokenSecret: v.GetString("REFRESH_TOKEN_SECRET"),
		RefreshTokenExpiry: v.GetDuration("REFRESH_TOKEN_EXPIRY"),

		YouTubeAPIKey:  v.GetString("YOUTUBE_API_KEY"),
		YouTubeBaseURL: v.GetString("YOUTUBE_BASE_URL"),
		YouTubeTimeout: v.GetDuration("YOUTUBE_TIMEOUT"),

		SearchCacheTTL:   v.GetDuration("SEARCH_CACHE_TTL"),
		SearchRateLimit:  v.GetInt("SEARCH_RATE_LIMIT"),
		SearchRateWindow: v.GetDuration("SEARCH_RATE_WINDOW"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the invariants the token service relies on.
func (c *Config) Validate() error {
	if c.AccessTokenSecret == "" || c.RefreshTokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("access and refresh token secrets must differ")
	}
	if c.AccessTokenExpiry <= 0 || c.RefreshTokenExpiry <= 0 {
		return errors.New("token expiries must be positive")
	}
	if c.AccessTokenExpiry >= c.RefreshTokenExpiry {
		return errors.New("ACCESS_TOKEN_EXPIRY must be shorter than REFRESH_TOKEN_EXPIRY")
	}
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.SearchCacheTTL <= 0 {
		return errors.New("SEARCH_CACHE_TTL must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGIN", "http://localhost:5173")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "freeskill.db")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("ACCESS_TOKEN_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_EXPIRY", "15m")
	v.SetDefault("REFRESH_TOKEN_SECRET", "")
	v.SetDefault("REFRESH_TOKEN_EXPIRY", "240h")
	v.SetDefault("YOUTUBE_API_KEY", "")
	v.SetDefault("YOUTUBE_BASE_URL", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("YOUTUBE_TIMEOUT", "10s")
	v.SetDefault("SEARCH_CACHE_TTL", "24h")
	v.SetDefault("SEARCH_RATE_LIMIT", 30)
	v.SetDefault("SEARCH_RATE_WINDOW", "1m")
}
