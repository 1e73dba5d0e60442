package controller

import (
	"edu-dashboard-be/internal/pkg/serverutils"
	"edu-dashboard-be/pkg/gate"

	"github.com/gofiber/fiber/v2"
)

// Guards are the middlewares protected routes mount behind. Every gate guard
// expects Auth to have run first.
type Guards struct {
	Auth          fiber.Handler
	Authenticated fiber.Handler
	Dashboard     fiber.Handler
	ProfileSetup  fiber.Handler
}

func NewGuards(verifier serverutils.TokenVerifier, sessions serverutils.SessionSource) Guards {
	return Guards{
		Auth:          serverutils.JwtMiddleware(verifier),
		Authenticated: serverutils.GateMiddleware(sessions, gate.Authenticated),
		Dashboard:     serverutils.GateMiddleware(sessions, gate.Dashboard),
		ProfileSetup:  serverutils.GateMiddleware(sessions, gate.ProfileSetup),
	}
}
