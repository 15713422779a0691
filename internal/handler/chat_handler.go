package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/startupguru/startupguru/internal/domain"
	"github.com/startupguru/startupguru/internal/port"
	"github.com/startupguru/startupguru/internal/service"
)

// ChatHandler exposes the question-answering endpoint.
type ChatHandler struct {
	queries *service.QueryService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(queries *service.QueryService) *ChatHandler {
	return &ChatHandler{queries: queries}
}

// Register sets up chat routes.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Post("/chat", h.Chat)
}

// Chat answers one user question. Input rejections come back as 400 with the
// same response shape as a successful answer, so clients render them the
// same way.
func (h *ChatHandler) Chat(c fiber.Ctx) error {
	var body struct {
		Message      string `json:"message"`
		SessionID    string `json:"session_id"`
		IncludeDebug bool   `json:"include_debug"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(validationResult("Invalid request body."))
	}

	result, err := h.queries.Process(c.Context(), service.QueryRequest{
		Message:      body.Message,
		SessionID:    body.SessionID,
		IncludeDebug: body.IncludeDebug,
	})
	if err != nil {
		var ve *port.ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(validationResult(ve.Message))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.JSON(result)
}

func validationResult(message string) domain.QueryResult {
	return domain.QueryResult{
		Response:      message,
		Confidence:    0.0,
		Sources:       []domain.Source{},
		TopicDetected: "error",
	}
}
