package httpapi

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/chat"
	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/llm"
	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/openmeteo"
)

var validate = validator.New()

// chatRequest is the inbound chat payload.
type chatRequest struct {
	Message string `json:"message" validate:"required,min=1"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *chat.Service) {
	v1 := app.Group("/api/v1")

	v1.Post("/chat", func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "message is required")
		}

		result, err := service.Handle(c.UserContext(), req.Message)
		if err != nil {
			return mapFault(err)
		}

		switch result.Kind {
		case chat.KindFlagged:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Content flagged by moderation",
				"details": "The following categories were flagged: " + strings.Join(result.FlaggedCategories, ", "),
			})
		case chat.KindLocationRequest:
			return c.JSON(fiber.Map{
				"type":    "location_request",
				"message": result.Message,
			})
		default:
			return c.JSON(result.Analysis)
		}
	})
}

// mapFault converts pipeline faults into Fiber errors so the centralized
// error handler can render the uniform envelope. Upstream weather failures
// keep their status code; a missing schema is a configuration fault.
func mapFault(err error) error {
	var upstream *openmeteo.UpstreamError
	if errors.As(err, &upstream) {
		return fiber.NewError(upstream.StatusCode, upstream.Error())
	}
	if errors.Is(err, llm.ErrNoSchema) {
		return fiber.NewError(fiber.StatusInternalServerError, "unsupported query type")
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
