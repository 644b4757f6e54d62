package pipelines

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fabric-sync/core/logger"
	"fabric-sync/core/pipeline"
)

// Handler handles HTTP requests for pipeline management.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new pipeline handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the pipeline routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/pipelines")
	group.Get("/", h.HandleListPipelines)
	group.Post("/", h.HandleCreatePipeline)
	group.Get("/:id", h.HandleGetPipeline)
	group.Delete("/:id", h.HandleDeletePipeline)
	group.Get("/:id/validate", h.HandleValidatePipeline)
	group.Post("/:id/run", h.HandleRunPipeline)
}

// HandleListPipelines returns summaries of every stored pipeline.
func (h *Handler) HandleListPipelines(c *fiber.Ctx) error {
	log := logger.WithRayID(h.logger, c)

	summaries, err := h.service.List()
	if err != nil {
		log.Error("Pipeline listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list pipelines",
		})
	}

	return c.JSON(fiber.Map{
		"pipelines": summaries,
		"count":     len(summaries),
	})
}

// HandleGetPipeline returns one full definition by id or name.
func (h *Handler) HandleGetPipeline(c *fiber.Ctx) error {
	log := logger.WithRayID(h.logger, c)

	p, err := h.service.Get(c.Params("id"))
	if errors.Is(err, pipeline.ErrPipelineNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "pipeline not found",
		})
	}
	if err != nil {
		log.Error("Pipeline lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load pipeline",
		})
	}

	return c.JSON(p)
}

// HandleValidatePipeline returns the validation report for a stored
// pipeline. Invalid definitions still answer 200; the report carries the
// verdict.
func (h *Handler) HandleValidatePipeline(c *fiber.Ctx) error {
	log := logger.WithRayID(h.logger, c)

	report, err := h.service.Validate(c.Params("id"))
	if errors.Is(err, pipeline.ErrPipelineNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "pipeline not found",
		})
	}
	if err != nil {
		log.Error("Pipeline validation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to validate pipeline",
		})
	}

	return c.JSON(report)
}

// HandleCreatePipeline stores the definition in the request body.
func (h *Handler) HandleCreatePipeline(c *fiber.Ctx) error {
	log := logger.WithRayID(h.logger, c)

	var p pipeline.Pipeline
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.service.Create(p); err != nil {
		log.Warn("Pipeline rejected", zap.String("pipeline", p.ID), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

// HandleDeletePipeline removes a stored definition.
func (h *Handler) HandleDeletePipeline(c *fiber.Ctx) error {
	log := logger.WithRayID(h.logger, c)

	err := h.service.Delete(c.Params("id"))
	if errors.Is(err, pipeline.ErrPipelineNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "pipeline not found",
		})
	}
	if err != nil {
		log.Error("Pipeline deletion failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete pipeline",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRunPipeline executes a pipeline and returns the run result. dry_run
// defaults to true so an apply is always an explicit request.
func (h *Handler) HandleRunPipeline(c *fiber.Ctx) error {
	log := logger.WithRayID(h.logger, c)

	opts := pipeline.RunOptions{
		DryRun:  c.QueryBool("dry_run", true),
		Cleanup: c.QueryBool("cleanup", false),
		Targets: splitTargets(c.Query("targets")),
	}

	result, err := h.service.Run(c.Context(), c.Params("id"), opts)
	if errors.Is(err, pipeline.ErrPipelineNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "pipeline not found",
		})
	}
	if errors.Is(err, ErrPipelineDisabled) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		log.Error("Pipeline run failed to start", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to run pipeline",
		})
	}

	log.Info("Pipeline run served",
		zap.String("pipeline", result.PipelineID),
		zap.String("run_id", result.RunID),
		zap.String("status", result.Status),
		zap.Bool("dry_run", result.DryRun))
	return c.JSON(result)
}

// splitTargets parses the comma-separated targets query parameter.
func splitTargets(raw string) []string {
	if raw == "" {
		return nil
	}
	var targets []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			targets = append(targets, trimmed)
		}
	}
	return targets
}
