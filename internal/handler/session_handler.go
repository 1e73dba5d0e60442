package handler

import (
	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/internal/pkg/serverutils"
	internalWS "edu-dashboard-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type SessionHandler struct {
	verifier serverutils.TokenVerifier
	sessions serverutils.SessionSource
	hub      *internalWS.Hub
	logger   logger.ILogger
}

func NewSessionHandler(verifier serverutils.TokenVerifier, sessions serverutils.SessionSource, hub *internalWS.Hub, log logger.ILogger) *SessionHandler {
	return &SessionHandler{
		verifier: verifier,
		sessions: sessions,
		hub:      hub,
		logger:   log,
	}
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/api/session/ws", h.ServeWs)
	r.Get("/api/session", serverutils.JwtMiddleware(h.verifier), h.Current)
}

// Current returns the session snapshot with the gate decision for each
// protected route. It never redirects, so clients can poll it while loading.
func (h *SessionHandler) Current(ctx *fiber.Ctx) error {
	sid := serverutils.SessionID(ctx)
	snap := h.sessions.Snapshot(sid)
	if !h.sessions.Known(sid) {
		snap = h.sessions.Restore(ctx.UserContext(), sid, serverutils.UserID(ctx))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session", dto.NewSessionResponse(snap)))
}

// ServeWs streams session snapshots. Browsers cannot set headers on the
// handshake, so the token may also come from the query string.
func (h *SessionHandler) ServeWs(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	tokenStr := serverutils.TokenFromRequest(ctx)
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.RedirectResponse(fiber.StatusUnauthorized, "Missing token", "/login"))
	}
	claims, err := h.verifier.Verify(ctx.UserContext(), tokenStr)
	if err != nil {
		h.logger.Warn("SessionHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.RedirectResponse(fiber.StatusUnauthorized, "Invalid token", "/login"))
	}

	snap := h.sessions.Snapshot(claims.SessionID)
	if !h.sessions.Known(claims.SessionID) {
		snap = h.sessions.Restore(ctx.UserContext(), claims.SessionID, claims.UserID)
	}
	initial, err := internalWS.Encode("session", dto.NewSessionResponse(snap))
	if err != nil {
		return err
	}

	return websocket.New(func(c *websocket.Conn) {
		h.logger.Info("SessionHandler", "Starting WebSocket session", map[string]interface{}{"session_id": claims.SessionID})
		internalWS.ServeWs(h.hub, c, claims.SessionID, claims.UserID, initial)
		h.logger.Info("SessionHandler", "WebSocket session ended", map[string]interface{}{"session_id": claims.SessionID})
	})(ctx)
}
