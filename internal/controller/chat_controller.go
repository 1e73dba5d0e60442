package controller

import (
	"errors"

	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IInferenceService
}

func NewChatController(service service.IInferenceService) IChatController {
	return &chatController{service: service}
}

// RegisterRoutes mounts the inference endpoint. It is unauthenticated: the
// assistant client of this same server is its caller.
func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
}

// Chat answers with the bare {response} / {error} bodies the assistant client
// reads, not the envelope.
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.ChatErrorResponse{Error: err.Error()})
	}

	res, err := c.service.Answer(ctx.UserContext(), &req)
	if err != nil {
		var ie *service.InferenceError
		if errors.As(err, &ie) {
			return ctx.Status(ie.Status).JSON(dto.ChatErrorResponse{Error: ie.Message})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.ChatErrorResponse{Error: err.Error()})
	}
	return ctx.JSON(res)
}
