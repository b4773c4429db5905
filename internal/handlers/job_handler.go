package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

type JobHandler struct {
	jobs   services.JobConfigService
	logger *zap.Logger
}

func NewJobHandler(jobs services.JobConfigService, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		jobs:   jobs,
		logger: logger,
	}
}

// HandleList handles GET /jobs
func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	jobs, err := h.jobs.List()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(jobs)
}

// HandleGet handles GET /jobs/:id
func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid job ID format")
	}

	job, err := h.jobs.Get(id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(job)
}

// HandleCreate handles POST /jobs
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.JobConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	job, err := h.jobs.Create(services.JobConfigInputFromRequest(req))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

// HandleUpdate handles PUT /jobs/:id. The body replaces every editable field.
func (h *JobHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid job ID format")
	}

	var req models.JobConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	job, err := h.jobs.Update(id, services.JobConfigInputFromRequest(req))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(job)
}

// HandleDelete handles DELETE /jobs/:id?confirm=true
func (h *JobHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid job ID format")
	}

	if err := h.jobs.Delete(id, c.QueryBool("confirm", false)); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
