package controller

import (
	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/pkg/serverutils"
	"edu-dashboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router, g Guards)
	SignUp(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IIdentityService
}

func NewAuthController(service service.IIdentityService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router, g Guards) {
	h := r.Group("/auth")
	h.Post("/signup", c.SignUp)
	h.Post("/login", c.Login)
	h.Post("/logout", g.Auth, c.Logout)
}

func (c *authController) SignUp(ctx *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SignUp(ctx.UserContext(), &req, ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    fiber.StatusCreated,
		"message": "Account created",
		"data":    res,
	})
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SignIn(ctx.UserContext(), &req, ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	err := c.service.SignOut(ctx.UserContext(), serverutils.UserID(ctx), serverutils.SessionID(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			serverutils.ErrorResponse(fiber.StatusInternalServerError, "Failed to log out: "+err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Logged out", fiber.Map{"redirect": "/login"}))
}
