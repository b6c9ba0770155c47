package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	httpapi "github.com/Atj28/weather-and-solar-AI-chat-bot/internal/api/http"
	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/chat"
	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/config"
	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/geocode"
	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/llm"
	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/openmeteo"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound geocoding and weather calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	openaiClient := openai.NewClient(cfg.OpenAIAPIKey)

	// Nominatim first; Google fallback only when a key is configured.
	var geocoders geocode.Chain
	geocoders = append(geocoders, geocode.NewNominatim(httpClient, cfg.NominatimBaseURL, cfg.GeocoderUserAgent))
	if cfg.GoogleGeocoderAPIKey != "" {
		geocoders = append(geocoders, geocode.NewGoogle(cfg.GoogleGeocoderAPIKey))
	}

	builder := openmeteo.NewBuilder()
	builder.ClimateStartYear = cfg.ClimateStartYear
	builder.ClimateEndYear = cfg.ClimateEndYear

	service := chat.NewService(
		geocoders,
		openmeteo.NewClient(httpClient),
		builder,
		llm.NewFormatter(openaiClient, cfg.OpenAIModel),
		llm.NewModerator(openaiClient),
	)

	app := fiber.New(fiber.Config{
		AppName:               "solar-chat",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":      true,
				"message":    err.Error(),
				"request_id": c.Locals("request_id"),
			})
		},
	})

	// Global middleware
	app.Use(func(c *fiber.Ctx) error {
		id := uuid.NewString()
		c.Locals("request_id", id)
		c.Set("X-Request-ID", id)
		return c.Next()
	})
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New()) // permissive, for the chat frontend

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "solar-chat",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
