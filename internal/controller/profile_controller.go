package controller

import (
	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/pkg/serverutils"
	"edu-dashboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProfileController interface {
	RegisterRoutes(r fiber.Router, g Guards)
	Get(ctx *fiber.Ctx) error
	Setup(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
}

type profileController struct {
	service service.IProfileService
}

func NewProfileController(service service.IProfileService) IProfileController {
	return &profileController{service: service}
}

func (c *profileController) RegisterRoutes(r fiber.Router, g Guards) {
	h := r.Group("/profile", g.Auth)
	h.Get("", g.Authenticated, c.Get)
	h.Put("", g.ProfileSetup, c.Setup)
	h.Post("/refresh", g.Authenticated, c.Refresh)
}

func (c *profileController) Get(ctx *fiber.Ctx) error {
	res := c.service.Get(ctx.UserContext(), serverutils.Snapshot(ctx))
	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

func (c *profileController) Setup(ctx *fiber.Ctx) error {
	var req dto.ProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Setup(ctx.UserContext(), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile saved", fiber.Map{
		"profile":  res,
		"redirect": "/dashboard",
	}))
}

// Refresh is the Retry control. Missing or incomplete profiles still redirect
// to setup; anything else is reported as a refresh failure.
func (c *profileController) Refresh(ctx *fiber.Ctx) error {
	res, err := c.service.Refresh(ctx.UserContext(), serverutils.UserID(ctx))
	if err != nil {
		if code, _ := serverutils.ErrorBody(err); code != fiber.StatusInternalServerError {
			return err
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			serverutils.ErrorResponse(fiber.StatusInternalServerError, "Failed to refresh data: "+err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile refreshed", res))
}
