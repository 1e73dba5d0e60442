package controller

import (
	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/pkg/serverutils"
	"edu-dashboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWorkspaceController interface {
	RegisterRoutes(r fiber.Router, g Guards)
	Show(ctx *fiber.Ctx) error
	OpenTopic(ctx *fiber.Ctx) error
	OpenModule(ctx *fiber.Ctx) error
	LaunchQuiz(ctx *fiber.Ctx) error
	LaunchVisualization(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
	OpenDialog(ctx *fiber.Ctx) error
	UpdateDraft(ctx *fiber.Ctx) error
	SaveDialog(ctx *fiber.Ctx) error
	Quiz(ctx *fiber.Ctx) error
	SelectAnswer(ctx *fiber.Ctx) error
	NextQuestion(ctx *fiber.Ctx) error
}

type workspaceController struct {
	service service.IWorkspaceService
}

func NewWorkspaceController(service service.IWorkspaceService) IWorkspaceController {
	return &workspaceController{service: service}
}

func (c *workspaceController) RegisterRoutes(r fiber.Router, g Guards) {
	o := r.Group("/overlay", g.Auth, g.Dashboard)
	o.Get("", c.Show)
	o.Post("/topic", c.OpenTopic)
	o.Post("/module", c.OpenModule)
	o.Post("/quiz", c.LaunchQuiz)
	o.Post("/visualization", c.LaunchVisualization)
	o.Post("/close", c.Close)
	o.Post("/dialog", c.OpenDialog)
	o.Patch("/dialog", c.UpdateDraft)
	o.Post("/dialog/save", c.SaveDialog)

	q := r.Group("/quiz", g.Auth, g.Dashboard)
	q.Get("", c.Quiz)
	q.Post("/answer", c.SelectAnswer)
	q.Post("/next", c.NextQuestion)
}

func (c *workspaceController) Show(ctx *fiber.Ctx) error {
	res := c.service.View(serverutils.SessionID(ctx), serverutils.UserID(ctx))
	return ctx.JSON(serverutils.SuccessResponse("Success get overlay", res))
}

func (c *workspaceController) OpenTopic(ctx *fiber.Ctx) error {
	var req dto.OpenRecordRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.OpenTopic(ctx.UserContext(), serverutils.SessionID(ctx), serverutils.UserID(ctx), req.Id)
	return respond(ctx, "Topic opened", res, err)
}

func (c *workspaceController) OpenModule(ctx *fiber.Ctx) error {
	var req dto.OpenRecordRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.OpenModule(ctx.UserContext(), serverutils.SessionID(ctx), serverutils.UserID(ctx), req.Id)
	return respond(ctx, "Module opened", res, err)
}

func (c *workspaceController) LaunchQuiz(ctx *fiber.Ctx) error {
	res, err := c.service.LaunchQuiz(ctx.UserContext(), serverutils.SessionID(ctx), serverutils.UserID(ctx))
	return respond(ctx, "Quiz launched", res, err)
}

func (c *workspaceController) LaunchVisualization(ctx *fiber.Ctx) error {
	res, err := c.service.LaunchVisualization(ctx.UserContext(), serverutils.SessionID(ctx), serverutils.UserID(ctx))
	return respond(ctx, "Visualization launched", res, err)
}

func (c *workspaceController) Close(ctx *fiber.Ctx) error {
	res := c.service.Close(ctx.UserContext(), serverutils.SessionID(ctx), serverutils.UserID(ctx))
	return ctx.JSON(serverutils.SuccessResponse("Overlay closed", res))
}

func (c *workspaceController) OpenDialog(ctx *fiber.Ctx) error {
	var req dto.DialogRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.OpenDialog(ctx.UserContext(), serverutils.SessionID(ctx), serverutils.UserID(ctx), &req)
	return respond(ctx, "Dialog opened", res, err)
}

func (c *workspaceController) UpdateDraft(ctx *fiber.Ctx) error {
	var req dto.DraftRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.UpdateDraft(ctx.UserContext(), serverutils.SessionID(ctx), serverutils.UserID(ctx), &req)
	return respond(ctx, "Draft updated", res, err)
}

func (c *workspaceController) SaveDialog(ctx *fiber.Ctx) error {
	res, err := c.service.SaveDialog(ctx.UserContext(), serverutils.SessionID(ctx), serverutils.UserID(ctx))
	return respond(ctx, "Saved", res, err)
}

func (c *workspaceController) Quiz(ctx *fiber.Ctx) error {
	res := c.service.View(serverutils.SessionID(ctx), serverutils.UserID(ctx))
	return ctx.JSON(serverutils.SuccessResponse("Success get quiz", res.Quiz))
}

func (c *workspaceController) SelectAnswer(ctx *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.SelectAnswer(ctx.UserContext(), serverutils.SessionID(ctx), serverutils.UserID(ctx), *req.Index)
	return respond(ctx, "Answer selected", res, err)
}

func (c *workspaceController) NextQuestion(ctx *fiber.Ctx) error {
	res, err := c.service.NextQuestion(ctx.UserContext(), serverutils.SessionID(ctx), serverutils.UserID(ctx))
	return respond(ctx, "Next question", res, err)
}

func parse(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return err
	}
	return serverutils.ValidateRequest(req)
}

func respond(ctx *fiber.Ctx, message string, data interface{}, err error) error {
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(message, data))
}
