package serverutils

import (
	"context"
	"strings"

	"edu-dashboard-be/pkg/identity"

	"github.com/gofiber/fiber/v2"
)

// TokenVerifier checks an access token and that its session is still live.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*identity.Claims, error)
}

// TokenFromRequest reads the bearer token, falling back to the "token" query
// parameter that browsers use for websocket handshakes.
func TokenFromRequest(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ctx.Query("token")
}

func JwtMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := TokenFromRequest(ctx)
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(RedirectResponse(fiber.StatusUnauthorized, "Missing token", "/login"))
		}

		claims, err := verifier.Verify(ctx.UserContext(), tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(RedirectResponse(fiber.StatusUnauthorized, "Invalid token", "/login"))
		}

		ctx.Locals(LocalUserID, claims.UserID)
		ctx.Locals(LocalSession, claims.SessionID)
		return ctx.Next()
	}
}

func UserID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(LocalUserID).(string)
	return id
}

func SessionID(ctx *fiber.Ctx) string {
	sid, _ := ctx.Locals(LocalSession).(string)
	return sid
}
