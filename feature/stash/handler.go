package stash

import (
	"errors"

	"hysync/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for stash data.
type Handler struct {
	service    *Service
	defaultMax int
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler. defaultMax is the system-wide stash
// limit applied when a player has no explicit one.
func NewHandler(service *Service, defaultMax int, logg *zap.Logger) *Handler {
	return &Handler{service: service, defaultMax: defaultMax, logger: logg}
}

// RegisterRoutes registers the stash routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/players/:uuid/stashes")
	group.Get("/", h.HandleList)
	group.Get("/limit", h.HandleGetLimit)
	group.Put("/limit", h.HandleSetLimit)
	group.Get("/:name", h.HandleGet)
	group.Put("/:name", h.HandleSave)
	group.Delete("/:name", h.HandleDelete)
	group.Post("/:name/rename", h.HandleRename)

	// Lifecycle hook: the host calls this when the player disconnects.
	app.Delete("/players/:uuid/cache", h.HandleUnload)
}

type saveRequest struct {
	Size  int    `json:"size"`
	Items string `json:"items"`
}

type renameRequest struct {
	NewName string `json:"new_name"`
}

type limitRequest struct {
	Max int `json:"max"`
}

// HandleList returns all stashes for a player.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	records, err := h.service.List(c.Context(), playerUUID)
	if err != nil {
		l.Error("Stash list failed", zap.String("player", playerUUID), zap.Error(err))
		return storeUnavailable(c)
	}
	return c.JSON(records)
}

// HandleGet returns a single stash.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	rec, err := h.service.Get(c.Context(), playerUUID, c.Params("name"))
	if err != nil {
		l.Error("Stash read failed", zap.String("player", playerUUID), zap.Error(err))
		return storeUnavailable(c)
	}
	if rec == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no such stash"})
	}
	return c.JSON(rec)
}

// HandleSave creates or replaces a stash.
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	var req saveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if err := h.service.Save(c.Context(), playerUUID, c.Params("name"), req.Size, req.Items); err != nil {
		l.Error("Stash save failed", zap.String("player", playerUUID), zap.Error(err))
		return storeUnavailable(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDelete removes a stash.
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	err := h.service.Delete(c.Context(), playerUUID, c.Params("name"))
	if errors.Is(err, ErrStashNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no such stash"})
	}
	if err != nil {
		l.Error("Stash delete failed", zap.String("player", playerUUID), zap.Error(err))
		return storeUnavailable(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRename renames a stash.
func (h *Handler) HandleRename(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	var req renameRequest
	if err := c.BodyParser(&req); err != nil || req.NewName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	err := h.service.Rename(c.Context(), playerUUID, c.Params("name"), req.NewName)
	if errors.Is(err, ErrStashNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no such stash"})
	}
	if err != nil {
		l.Error("Stash rename failed", zap.String("player", playerUUID), zap.Error(err))
		return storeUnavailable(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetLimit returns the player's stash limit and its effective value.
func (h *Handler) HandleGetLimit(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	limit, err := h.service.MaxStashes(c.Context(), playerUUID)
	if err != nil {
		l.Error("Stash limit read failed", zap.String("player", playerUUID), zap.Error(err))
		return storeUnavailable(c)
	}
	return c.JSON(fiber.Map{
		"present":   limit.Present,
		"max":       limit.Max,
		"effective": limit.EffectiveMax(h.defaultMax),
	})
}

// HandleSetLimit sets the player's stash limit.
func (h *Handler) HandleSetLimit(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	l := logger.WithRayID(h.logger, c)

	var req limitRequest
	if err := c.BodyParser(&req); err != nil || req.Max < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if err := h.service.SetMaxStashes(c.Context(), playerUUID, req.Max); err != nil {
		l.Error("Stash limit write failed", zap.String("player", playerUUID), zap.Error(err))
		return storeUnavailable(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUnload discards the player's cached stash collection.
func (h *Handler) HandleUnload(c *fiber.Ctx) error {
	playerUUID, ok := parseUUID(c)
	if !ok {
		return badUUID(c)
	}
	h.service.Unload(playerUUID)
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
