package session

import (
	"hysync/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for session ownership.
type Handler struct {
	service  *Service
	serverID string
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. serverID is this process's identity;
// claim and release performed over HTTP always act on its behalf.
func NewHandler(service *Service, serverID string, logg *zap.Logger) *Handler {
	return &Handler{service: service, serverID: serverID, logger: logg}
}

// RegisterRoutes registers the session routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sessions")
	group.Get("/:uuid", h.HandleGetOwner)
	group.Post("/:uuid/claim", h.HandleClaim)
	group.Post("/:uuid/release", h.HandleRelease)
}

// HandleGetOwner returns the server currently holding the player's session.
func (h *Handler) HandleGetOwner(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	owner, err := h.service.CurrentOwner(c.Context(), playerUUID)
	if err != nil {
		l.Error("Session owner lookup failed", zap.String("player", playerUUID), zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
	}
	if owner == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no session"})
	}
	return c.JSON(fiber.Map{"server_id": owner})
}

// HandleClaim attempts to claim the player for this server.
func (h *Handler) HandleClaim(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	claimed, err := h.service.Claim(c.Context(), playerUUID, h.serverID)
	if err != nil {
		l.Error("Session claim failed", zap.String("player", playerUUID), zap.Error(err))
	}
	return c.JSON(fiber.Map{"claimed": claimed, "server_id": h.serverID})
}

// HandleRelease releases the player's session if this server owns it.
func (h *Handler) HandleRelease(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	if err := h.service.Release(c.Context(), playerUUID, h.serverID); err != nil {
		l.Error("Session release failed", zap.String("player", playerUUID), zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseUUID(c *fiber.Ctx) (string, bool) {
	id, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func badUUID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid player uuid"})
}
