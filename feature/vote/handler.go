package vote

import (
	"hysync/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for vote tallies.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logg *zap.Logger) *Handler {
	return &Handler{service: service, logger: logg}
}

// RegisterRoutes registers the vote routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/votes")
	group.Get("/top", h.HandleTop)
	group.Get("/:uuid", h.HandleTotal)
	group.Post("/:uuid", h.HandleAdd)
}

type addRequest struct {
	Platform string `json:"platform"`
	Count    int    `json:"count"`
}

// HandleAdd appends votes for a player and returns the new total.
func (h *Handler) HandleAdd(c *fiber.Ctx) error {
	playerUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid player uuid"})
	}
	l := logger.WithRayID(h.logger, c)

	var req addRequest
	if err := c.BodyParser(&req); err != nil || req.Platform == "" || req.Count <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	total, err := h.service.Add(c.Context(), playerUUID.String(), req.Platform, req.Count)
	if err != nil {
		l.Error("Vote append failed", zap.String("player", playerUUID.String()), zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
	}
	return c.JSON(fiber.Map{"total": total})
}

// HandleTotal returns a player's vote total, optionally for one platform.
func (h *Handler) HandleTotal(c *fiber.Ctx) error {
	playerUUID, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid player uuid"})
	}
	l := logger.WithRayID(h.logger, c)

	var total int
	if platform := c.Query("platform"); platform != "" {
		total, err = h.service.PlatformTotal(c.Context(), playerUUID.String(), platform)
	} else {
		total, err = h.service.Total(c.Context(), playerUUID.String())
	}
	if err != nil {
		l.Error("Vote total failed", zap.String("player", playerUUID.String()), zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
	}
	return c.JSON(fiber.Map{"total": total})
}

// HandleTop returns the vote leaderboard.
func (h *Handler) HandleTop(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	voters, err := h.service.Top(c.Context(), c.QueryInt("limit", 10))
	if err != nil {
		l.Error("Vote leaderboard failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
	}
	return c.JSON(voters)
}
