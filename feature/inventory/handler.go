package inventory

import (
	"errors"

	"hysync/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for player inventory data.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logg *zap.Logger) *Handler {
	return &Handler{service: service, logger: logg}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/players/:uuid")
	group.Get("/", h.HandleGetPlayer)
	group.Get("/inventory", h.HandleGetInventory)
	group.Put("/inventory", h.HandleSetInventory)
	group.Get("/hotbar", h.HandleGetHotbar)
	group.Put("/hotbar", h.HandleSetHotbar)
}

type setInventoryRequest struct {
	DisplayName string `json:"display_name"`
	Version     int    `json:"version"`
	Inventory   string `json:"inventory"`
}

type setHotbarRequest struct {
	Hotbar string `json:"hotbar"`
}

// HandleGetPlayer returns the player's identity record.
func (h *Handler) HandleGetPlayer(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	info, err := h.service.GetPlayer(c.Context(), playerUUID)
	if err != nil {
		l.Error("Player lookup failed", zap.String("player", playerUUID), zap.Error(err))
		return storeUnavailable(c)
	}
	if info == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown player"})
	}
	return c.JSON(info)
}

// HandleGetInventory returns the raw inventory payload.
func (h *Handler) HandleGetInventory(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	doc, err := h.service.GetInventory(c.Context(), playerUUID)
	if err != nil {
		l.Error("Inventory read failed", zap.String("player", playerUUID), zap.Error(err))
		return storeUnavailable(c)
	}
	if doc == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no inventory"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(*doc)
}

// HandleSetInventory stores a full inventory payload.
func (h *Handler) HandleSetInventory(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	var req setInventoryRequest
	if err := c.BodyParser(&req); err != nil || req.Inventory == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if err := h.service.SetInventory(c.Context(), playerUUID, req.DisplayName, req.Inventory, req.Version); err != nil {
		l.Error("Inventory write failed", zap.String("player", playerUUID), zap.Error(err))
		return storeUnavailable(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetHotbar returns the raw hotbar manager payload.
func (h *Handler) HandleGetHotbar(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	doc, err := h.service.GetHotbarManager(c.Context(), playerUUID)
	if err != nil {
		l.Error("Hotbar read failed", zap.String("player", playerUUID), zap.Error(err))
		return storeUnavailable(c)
	}
	if doc == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no hotbar"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(*doc)
}

// HandleSetHotbar stores a hotbar manager payload for an existing inventory.
func (h *Handler) HandleSetHotbar(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	var req setHotbarRequest
	if err := c.BodyParser(&req); err != nil || req.Hotbar == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	err := h.service.SetHotbarManager(c.Context(), playerUUID, req.Hotbar)
	if errors.Is(err, ErrNoInventoryRow) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "no inventory record"})
	}
	if err != nil {
		l.Error("Hotbar write failed", zap.String("player", playerUUID), zap.Error(err))
		return storeUnavailable(c)
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

func storeUnavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
}
