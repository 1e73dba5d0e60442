package controller

import (
	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/pkg/serverutils"
	"edu-dashboard-be/internal/service"
	"edu-dashboard-be/pkg/gate"

	"github.com/gofiber/fiber/v2"
)

type IDashboardController interface {
	RegisterRoutes(r fiber.Router, g Guards)
	Show(ctx *fiber.Ctx) error
	SelectSubject(ctx *fiber.Ctx) error
	Content(ctx *fiber.Ctx) error
	ListModules(ctx *fiber.Ctx) error
	ListTopics(ctx *fiber.Ctx) error
	DeleteModule(ctx *fiber.Ctx) error
	DeleteTopic(ctx *fiber.Ctx) error
}

type dashboardController struct {
	service    service.IDashboardService
	workspaces service.IWorkspaceService
}

func NewDashboardController(service service.IDashboardService, workspaces service.IWorkspaceService) IDashboardController {
	return &dashboardController{service: service, workspaces: workspaces}
}

func (c *dashboardController) RegisterRoutes(r fiber.Router, g Guards) {
	// no shared group: a group on "" would put the guards on every /api route
	guarded := []fiber.Handler{g.Auth, g.Dashboard}
	r.Get("/dashboard", append(guarded, c.Show)...)
	r.Put("/dashboard/subject", append(guarded, c.SelectSubject)...)
	r.Get("/content", append(guarded, c.Content)...)
	r.Get("/modules", append(guarded, c.ListModules)...)
	r.Get("/topics", append(guarded, c.ListTopics)...)
	r.Delete("/modules/:id", append(guarded, c.DeleteModule)...)
	r.Delete("/topics/:id", append(guarded, c.DeleteTopic)...)
}

func (c *dashboardController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Load(ctx.UserContext(), serverutils.Snapshot(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success load dashboard", res))
}

func (c *dashboardController) SelectSubject(ctx *fiber.Ctx) error {
	var req dto.SelectSubjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SelectSubject(ctx.UserContext(), serverutils.Snapshot(ctx), req.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subject selected", res))
}

// Content resolves the block for the query, defaulting to the caller's
// standard and current subject.
func (c *dashboardController) Content(ctx *fiber.Ctx) error {
	snap := serverutils.Snapshot(ctx)
	subject := ctx.Query("subject", c.currentSubject(ctx))
	standard := ctx.Query("standard")
	if standard == "" && snap.Profile != nil {
		standard = snap.Profile.Standard
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get content", c.service.Content(subject, standard)))
}

func (c *dashboardController) ListModules(ctx *fiber.Ctx) error {
	subject := ctx.Query("subject", c.currentSubject(ctx))
	if subject == "" {
		return gate.ErrSubjectNotChosen
	}
	res, err := c.service.ListModules(ctx.UserContext(), subject)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get modules", res))
}

func (c *dashboardController) ListTopics(ctx *fiber.Ctx) error {
	subject := ctx.Query("subject", c.currentSubject(ctx))
	if subject == "" {
		return gate.ErrSubjectNotChosen
	}
	res, err := c.service.ListTopics(ctx.UserContext(), subject, ctx.Query("module_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get topics", res))
}

func (c *dashboardController) DeleteModule(ctx *fiber.Ctx) error {
	return c.delete(ctx, entity.RecordKindModule)
}

func (c *dashboardController) DeleteTopic(ctx *fiber.Ctx) error {
	return c.delete(ctx, entity.RecordKindTopic)
}

func (c *dashboardController) delete(ctx *fiber.Ctx, kind entity.RecordKind) error {
	res, err := c.workspaces.Delete(ctx.UserContext(), serverutils.SessionID(ctx), serverutils.UserID(ctx), kind, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete "+string(kind), res))
}

func (c *dashboardController) currentSubject(ctx *fiber.Ctx) string {
	return c.workspaces.View(serverutils.SessionID(ctx), serverutils.UserID(ctx)).Selection.Subject
}
