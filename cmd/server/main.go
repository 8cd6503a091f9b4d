package main

import (
	"log"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/anjanibarlapati/skyready/internal/backend"
	"github.com/anjanibarlapati/skyready/internal/cache"
	"github.com/anjanibarlapati/skyready/internal/geo"
	"github.com/anjanibarlapati/skyready/internal/handler"
	"github.com/anjanibarlapati/skyready/internal/ratelimit"
	"github.com/anjanibarlapati/skyready/internal/session"
)

type Config struct {
	Port         string
	BackendURL   string
	CacheEnabled bool
	RedisHost    string
	RedisPort    string
	RedisTTL     time.Duration
}

func main() {
	cfg := loadConfig()
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	rateLimiter := ratelimit.NewEndpointLimiterWithDefaults()
	rateLimiter.SetEndpointLimit("search", 20, 30)
	rateLimiter.SetEndpointLimit("cities", 5, 10)
	rateLimiter.SetEndpointLimit("confirm", 10, 15)

	client := backend.New(cfg.BackendURL, rateLimiter)
	log.Printf("Flight backend: %s", cfg.BackendURL)

	var searchCache cache.Cache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host: cfg.RedisHost,
			Port: cfg.RedisPort,
			TTL:  cfg.RedisTTL,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		searchCache = redisCache
		log.Printf("Redis cache enabled (host: %s:%s, TTL: %v)", cfg.RedisHost, cfg.RedisPort, cfg.RedisTTL)
	} else {
		searchCache = cache.NewNoOpCache()
		log.Println("Cache disabled")
	}

	manager := session.NewManager(session.ManagerConfig{
		Backend: client,
		Cities:  client,
		Geo:     geo.New(),
		Cache:   searchCache,
	})

	sessionHandler := handler.NewSessionHandler(manager)

	api := e.Group("/api/v1")
	api.POST("/sessions", sessionHandler.Create)
	api.GET("/sessions/:id", sessionHandler.Get)
	api.DELETE("/sessions/:id", sessionHandler.Delete)
	api.POST("/sessions/:id/search", sessionHandler.Search)
	api.POST("/sessions/:id/navigate", sessionHandler.Navigate)
	api.POST("/sessions/:id/select", sessionHandler.Select)
	api.GET("/sessions/:id/fare", sessionHandler.FareSummary)
	api.POST("/sessions/:id/confirm", sessionHandler.Confirm)
	api.PUT("/sessions/:id/currency", sessionHandler.SetCurrency)
	api.DELETE("/sessions/:id/alert", sessionHandler.DismissAlert)
	e.GET("/health", handler.HealthHandler)

	log.Printf("Starting flight search gateway on port %s", cfg.Port)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func loadConfig() Config {
	return Config{
		Port:         getEnv("PORT", "8080"),
		BackendURL:   getEnv("BACKEND_URL", "http://localhost:5000"),
		CacheEnabled: getEnvBool("CACHE_ENABLED", false),
		RedisHost:    getEnv("REDIS_HOST", "localhost"),
		RedisPort:    getEnv("REDIS_PORT", "6379"),
		RedisTTL:     getEnvDuration("REDIS_TTL", 5*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
