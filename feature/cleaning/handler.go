package cleaning

import (
	"errors"
	"strconv"

	"cleansync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler handles HTTP requests for calendar synchronization.
type Handler struct {
	service *Service
	repo    *Repository
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, repo *Repository) *Handler {
	return &Handler{service: service, repo: repo}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/configurations/:id", h.HandleSyncConfiguration)
	group.Post("/properties/:propertyID", h.HandleSyncProperty)
	group.Post("/due", h.HandleSyncDue)
	group.Get("/configurations/:id/logs", h.HandleSyncLogs)
}

// HandleSyncConfiguration runs one sync for a single configuration and
// returns its result.
func (h *Handler) HandleSyncConfiguration(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	config, err := h.repo.ConfigurationByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "sync configuration not found",
			})
		}
		l.Error("Loading sync configuration failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result := h.service.SyncConfiguration(c.Context(), *config)
	if result.Error == ErrSyncInProgress.Error() {
		return c.Status(fiber.StatusConflict).JSON(result)
	}
	return c.JSON(result)
}

// HandleSyncProperty runs a sync for every active configuration of one
// property, the "sync now" action.
func (h *Handler) HandleSyncProperty(c *fiber.Ctx) error {
	propertyID := c.Params("propertyID")
	l := logger.WithRayID(h.service.logger, c)

	results, err := h.service.SyncProperty(c.Context(), propertyID)
	if err != nil {
		l.Error("Property sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(results)
}

// HandleSyncDue runs the due-configuration pass on demand.
func (h *Handler) HandleSyncDue(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	results, err := h.service.SyncDue(c.Context())
	if err != nil {
		l.Error("Due sync pass failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(results)
}

// HandleSyncLogs returns the recent sync log rows of one configuration.
func (h *Handler) HandleSyncLogs(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	logs, err := h.repo.RecentSyncLogs(c.Context(), id, limit)
	if err != nil {
		l.Error("Loading sync logs failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(logs)
}
