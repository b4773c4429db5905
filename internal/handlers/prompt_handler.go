package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/scoring"
	"alfredoptarigan/resume-screener/internal/services"
)

type PromptHandler struct {
	engine *services.PromptTemplateEngine
}

func NewPromptHandler(engine *services.PromptTemplateEngine) *PromptHandler {
	return &PromptHandler{engine: engine}
}

// HandlePreview handles POST /prompts/preview. It renders the template the
// way the evaluator would, without calling the reasoning service.
func (h *PromptHandler) HandlePreview(c *fiber.Ctx) error {
	var req models.PromptPreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	ws := scoring.NewWeightSet(req.Weights...)
	weights, sum := ws.Commit()

	threshold := scoring.DefaultQualificationThreshold
	if req.QualificationThreshold != nil {
		threshold = *req.QualificationThreshold
	}

	prompt := h.engine.Render(services.TemplateOrDefault(req.PromptTemplate), services.PromptRenderContext{
		JobTitle:               req.JobTitle,
		Weights:                weights,
		ResumeText:             req.ResumeText,
		QualificationThreshold: threshold,
	})

	return c.JSON(fiber.Map{
		"prompt":           prompt,
		"weights":          weights,
		"weights_sum":      sum,
		"weights_complete": ws.IsComplete(),
	})
}
