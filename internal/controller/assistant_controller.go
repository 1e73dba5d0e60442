package controller

import (
	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/pkg/serverutils"
	"edu-dashboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router, g Guards)
	Show(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
	SwitchSubject(ctx *fiber.Ctx) error
}

type assistantController struct {
	service service.IWorkspaceService
}

func NewAssistantController(service service.IWorkspaceService) IAssistantController {
	return &assistantController{service: service}
}

func (c *assistantController) RegisterRoutes(r fiber.Router, g Guards) {
	h := r.Group("/assistant", g.Auth, g.Dashboard)
	h.Get("", c.Show)
	h.Post("/messages", c.Ask)
	h.Put("/subject", c.SwitchSubject)
}

func (c *assistantController) Show(ctx *fiber.Ctx) error {
	res := c.service.Assistant(serverutils.SessionID(ctx), serverutils.UserID(ctx))
	return ctx.JSON(serverutils.SuccessResponse("Success get assistant", res))
}

// Ask always answers 200; a failed exchange shows up as the snapshot's
// error banner and assistant error message.
func (c *assistantController) Ask(ctx *fiber.Ctx) error {
	var req dto.AssistantMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	res := c.service.AskAssistant(ctx.UserContext(), serverutils.SessionID(ctx), serverutils.UserID(ctx), req.Message)
	return ctx.JSON(serverutils.SuccessResponse("Message sent", res))
}

func (c *assistantController) SwitchSubject(ctx *fiber.Ctx) error {
	var req dto.AssistantSubjectRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.SwitchAssistantSubject(ctx.UserContext(), serverutils.SessionID(ctx), serverutils.UserID(ctx), req.Subject)
	return respond(ctx, "Subject switched", res, err)
}
