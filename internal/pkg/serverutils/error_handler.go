package serverutils

import (
	"errors"

	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/pkg/chat"
	"edu-dashboard-be/pkg/gate"
	"edu-dashboard-be/pkg/identity"
	"edu-dashboard-be/pkg/quiz"
	"edu-dashboard-be/pkg/session"
	"edu-dashboard-be/pkg/workspace"

	"github.com/gofiber/fiber/v2"
)

type errorMapping struct {
	target   error
	code     int
	message  string // empty: use err.Error()
	redirect string
}

var errorMappings = []errorMapping{
	{target: workspace.ErrUnauthenticated, code: fiber.StatusUnauthorized, redirect: "/login"},
	{target: identity.ErrSessionRevoked, code: fiber.StatusUnauthorized, redirect: "/login"},
	{target: identity.ErrInvalidToken, code: fiber.StatusUnauthorized, redirect: "/login"},
	{target: identity.ErrInvalidCredentials, code: fiber.StatusUnauthorized},
	{target: identity.ErrEmailTaken, code: fiber.StatusBadRequest},
	{target: gate.ErrIncompleteProfile, code: fiber.StatusForbidden, message: gate.IncompleteProfileMessage, redirect: "/profile-setup"},
	{target: session.ErrProfileNotFound, code: fiber.StatusForbidden, message: gate.IncompleteProfileMessage, redirect: "/profile-setup"},
	{target: gate.ErrInvalidStandard, code: fiber.StatusUnprocessableEntity, message: gate.InvalidStandardMessage},
	{target: gate.ErrSubjectNotChosen, code: fiber.StatusBadRequest},
	{target: workspace.ErrInvalidTransition, code: fiber.StatusConflict},
	{target: workspace.ErrInvalidKind, code: fiber.StatusBadRequest},
	{target: workspace.ErrRecordNotFound, code: fiber.StatusNotFound},
	{target: quiz.ErrNoAnswerSelected, code: fiber.StatusBadRequest},
	{target: quiz.ErrAnswerOutOfRange, code: fiber.StatusBadRequest},
	{target: quiz.ErrCompleted, code: fiber.StatusConflict},
	{target: quiz.ErrNotAvailable, code: fiber.StatusConflict},
	{target: chat.ErrUnknownSubject, code: fiber.StatusBadRequest},
}

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON
// envelope, mapping the domain sentinels to their status codes. Only 5xx
// errors are logged.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code, body := ErrorBody(err)
		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": code,
				"error":  err,
			})
		}
		return ctx.Status(code).JSON(body)
	}
}

func ErrorBody(err error) (int, fiber.Map) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		res := ErrorResponse(fiber.StatusBadRequest, ve.Error())
		res["data"] = ve.Fields
		return fiber.StatusBadRequest, res
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, ErrorResponse(fe.Code, fe.Message)
	}
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		if m.redirect != "" {
			return m.code, RedirectResponse(m.code, msg, m.redirect)
		}
		return m.code, ErrorResponse(m.code, msg)
	}
	return fiber.StatusInternalServerError, ErrorResponse(fiber.StatusInternalServerError, err.Error())
}
