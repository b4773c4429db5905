package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Jobs        *JobHandler
	Submissions *SubmissionHandler
	Resumes     *ResumeHandler
	Prompts     *PromptHandler
}

// Register mounts the API on router. Static resume paths are registered before
// /resumes/:id.
func Register(router fiber.Router, h Handlers) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	router.Get("/jobs", h.Jobs.HandleList)
	router.Post("/jobs", h.Jobs.HandleCreate)
	router.Get("/jobs/:id", h.Jobs.HandleGet)
	router.Put("/jobs/:id", h.Jobs.HandleUpdate)
	router.Delete("/jobs/:id", h.Jobs.HandleDelete)

	router.Post("/jobs/:id/resumes", h.Submissions.HandleSubmit)
	router.Get("/submissions/:id", h.Submissions.HandleGetSubmission)

	router.Get("/resumes", h.Resumes.HandleList)
	router.Get("/resumes/export", h.Resumes.HandleExport)
	router.Get("/resumes/:id", h.Resumes.HandleGet)
	router.Get("/resumes/:id/similar", h.Resumes.HandleSimilar)
	router.Get("/dashboard", h.Resumes.HandleDashboard)

	router.Post("/prompts/preview", h.Prompts.HandlePreview)
}
