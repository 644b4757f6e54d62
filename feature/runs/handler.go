package runs

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fabric-sync/core/logger"
	"fabric-sync/feature/runs/models"
)

// Handler handles HTTP requests for run history.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates a new run history handler.
func NewHandler(store *Store, logger *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes registers the run history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/runs")
	group.Get("/", h.HandleListRuns)
	group.Get("/:id", h.HandleGetRun)
}

// HandleListRuns returns recent runs, newest first. Accepts ?limit= and
// ?pipeline= to narrow the window.
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	log := logger.WithRayID(h.logger, c)

	limit := c.QueryInt("limit", defaultListLimit)
	pipelineID := c.Query("pipeline")

	runs, err := h.store.List(c.Context(), pipelineID, limit)
	if err != nil {
		log.Error("Run listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list runs",
		})
	}

	return c.JSON(fiber.Map{
		"runs":  runs,
		"count": len(runs),
	})
}

// HandleGetRun returns one run with its step results decoded.
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	log := logger.WithRayID(h.logger, c)

	id := c.Params("id")

	run, err := h.store.Get(c.Context(), id)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "run not found",
		})
	}
	if err != nil {
		log.Error("Run lookup failed", zap.String("run_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load run",
		})
	}

	detail := models.RunDetail{Run: *run}
	if err := json.Unmarshal([]byte(run.Steps), &detail.Steps); err != nil {
		log.Warn("Stored step results are unreadable",
			zap.String("run_id", run.ID),
			zap.Error(err),
		)
	}

	return c.JSON(detail)
}
