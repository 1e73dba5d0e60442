package serverutils

import (
	"context"

	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/pkg/gate"
	"edu-dashboard-be/pkg/session"

	"github.com/gofiber/fiber/v2"
)

// SessionSource is the slice of the session store the gate reads.
type SessionSource interface {
	Known(sid string) bool
	Restore(ctx context.Context, sid, userID string) session.Snapshot
	Snapshot(sid string) session.Snapshot
}

// GateMiddleware runs after JwtMiddleware. It loads the session snapshot,
// decides the target and either answers with the redirect or stores the
// snapshot for the handler.
func GateMiddleware(sessions SessionSource, target gate.Target) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sid := SessionID(ctx)
		var snap session.Snapshot
		if sid != "" && !sessions.Known(sid) {
			snap = sessions.Restore(ctx.UserContext(), sid, UserID(ctx))
		} else {
			snap = sessions.Snapshot(sid)
		}

		decision := gate.Decide(snap.GateState(), target)
		switch decision {
		case gate.Allow:
			ctx.Locals(LocalSnap, snap)
			return ctx.Next()
		case gate.Loading:
			return ctx.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"success": false,
				"code":    fiber.StatusAccepted,
				"message": "Session is loading",
				"data":    dto.GateResponse{Loading: true},
			})
		}

		code := statusForDecision(decision)
		return ctx.Status(code).JSON(fiber.Map{
			"success": false,
			"code":    code,
			"message": string(decision),
			"data":    dto.GateResponse{Redirect: gate.RedirectPath(decision)},
		})
	}
}

func statusForDecision(d gate.Decision) int {
	switch d {
	case gate.RedirectLogin:
		return fiber.StatusUnauthorized
	case gate.RedirectProfileSetup:
		return fiber.StatusForbidden
	case gate.RedirectDashboard:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// Snapshot returns the session stored by GateMiddleware.
func Snapshot(ctx *fiber.Ctx) session.Snapshot {
	snap, _ := ctx.Locals(LocalSnap).(session.Snapshot)
	return snap
}
