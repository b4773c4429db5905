package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type SubmissionHandler struct {
	jobs           services.JobConfigService
	submissionRepo repositories.SubmissionRepository
	resumeLogRepo  repositories.ResumeLogRepository
	storage        services.StorageService
	worker         services.Worker
	maxFileSize    int64
	logger         *zap.Logger
}

func NewSubmissionHandler(
	jobs services.JobConfigService,
	submissionRepo repositories.SubmissionRepository,
	resumeLogRepo repositories.ResumeLogRepository,
	storage services.StorageService,
	worker services.Worker,
	maxFileSize int64,
	logger *zap.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		jobs:           jobs,
		submissionRepo: submissionRepo,
		resumeLogRepo:  resumeLogRepo,
		storage:        storage,
		worker:         worker,
		maxFileSize:    maxFileSize,
		logger:         logger,
	}
}

// HandleSubmit handles POST /jobs/:id/resumes. The resume comes either as a
// `resume` file or as `resume_text`.
func (h *SubmissionHandler) HandleSubmit(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid job ID format")
	}

	if _, err := h.jobs.Get(jobID); err != nil {
		return respondError(c, h.logger, err)
	}

	candidateName := strings.TrimSpace(c.FormValue("candidate_name"))
	if candidateName == "" {
		return badRequest(c, "candidate_name is required")
	}

	sub := &models.Submission{
		ID:            uuid.New(),
		JobConfigID:   jobID,
		CandidateName: candidateName,
		Status:        models.StatusQueued,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if candidateID := strings.TrimSpace(c.FormValue("candidate_id")); candidateID != "" {
		sub.CandidateID = &candidateID
	}
	if text := strings.TrimSpace(c.FormValue("resume_text")); text != "" {
		sub.ResumeText = &text
	}

	if file, err := c.FormFile("resume"); err == nil {
		if file.Size > h.maxFileSize {
			return badRequest(c, fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
		}
		if !services.IsSupportedResumeFile(file.Filename) {
			return badRequest(c, fmt.Sprintf("Unsupported resume file. Allowed: %s", strings.Join(services.SupportedResumeExtensions, ", ")))
		}

		fileName, ref, err := h.storage.SaveFile(c.UserContext(), file, "resume")
		if err != nil {
			return respondError(c, h.logger, fmt.Errorf("failed to save resume file: %w", err))
		}
		sub.FileName = &fileName
		sub.FilePath = &ref
	}

	if sub.ResumeText == nil && sub.FilePath == nil {
		return badRequest(c, "Provide a 'resume' file or 'resume_text'")
	}

	if err := h.submissionRepo.Create(sub); err != nil {
		if sub.FilePath != nil {
			if delErr := h.storage.DeleteFile(c.UserContext(), *sub.FilePath); delErr != nil {
				h.logger.Warn("failed to clean up resume file", zap.String("ref", *sub.FilePath), zap.Error(delErr))
			}
		}
		return respondError(c, h.logger, err)
	}

	h.worker.Enqueue(sub.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.SubmitResponse{
		ID:     sub.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// HandleGetSubmission handles GET /submissions/:id
func (h *SubmissionHandler) HandleGetSubmission(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid submission ID format")
	}

	sub, err := h.submissionRepo.FindByID(id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	response := models.SubmissionResponse{
		ID:     sub.ID.String(),
		Status: string(sub.Status),
	}

	if sub.Status == models.StatusCompleted && sub.ResumeLogID != nil {
		log, err := h.resumeLogRepo.FindByID(*sub.ResumeLogID)
		if err != nil {
			return respondError(c, h.logger, err)
		}
		response.Result = log
	}

	if sub.Status == models.StatusFailed {
		response.ErrorMessage = sub.ErrorMessage
	}

	return c.JSON(response)
}
