package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/browse"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

const (
	exportRowLimit      = 5000
	defaultSimilarLimit = 5
	maxSimilarLimit     = 20
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ResumeHandler struct {
	resumeLogRepo repositories.ResumeLogRepository
	jobs          services.JobConfigService
	index         services.ResumeIndex
	pageSize      int
	logger        *zap.Logger
}

// NewResumeHandler builds the read side over resume logs. index may be nil, in
// which case similarity lookups answer 503.
func NewResumeHandler(
	resumeLogRepo repositories.ResumeLogRepository,
	jobs services.JobConfigService,
	index services.ResumeIndex,
	pageSize int,
	logger *zap.Logger,
) *ResumeHandler {
	if pageSize < 1 {
		pageSize = browse.DefaultPageSize
	}
	return &ResumeHandler{
		resumeLogRepo: resumeLogRepo,
		jobs:          jobs,
		index:         index,
		pageSize:      pageSize,
		logger:        logger,
	}
}

// HandleList handles GET /resumes?search=&page=
func (h *ResumeHandler) HandleList(c *fiber.Ctx) error {
	search := c.Query("search")
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	logs, total, err := h.resumeLogRepo.Search(search, page, h.pageSize)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if logs == nil {
		logs = []models.ResumeLog{}
	}

	return c.JSON(models.ResumePageResponse{
		Items:      logs,
		Page:       page,
		PageSize:   h.pageSize,
		Total:      total,
		TotalPages: browse.TotalPages(total, h.pageSize),
	})
}

// HandleGet handles GET /resumes/:id
func (h *ResumeHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid resume ID format")
	}

	log, err := h.resumeLogRepo.FindByID(id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(log)
}

// HandleSimilar handles GET /resumes/:id/similar
func (h *ResumeHandler) HandleSimilar(c *fiber.Ctx) error {
	if h.index == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "vector index is not configured",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid resume ID format")
	}

	limit := c.QueryInt("limit", defaultSimilarLimit)
	if limit < 1 || limit > maxSimilarLimit {
		limit = defaultSimilarLimit
	}

	log, err := h.resumeLogRepo.FindByID(id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	matches, err := h.index.FindSimilar(c.UserContext(), log, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	ids := make([]uuid.UUID, len(matches))
	for i, m := range matches {
		ids[i] = m.ResumeLogID
	}
	logs, err := h.resumeLogRepo.FindByIDs(ids)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	byID := make(map[uuid.UUID]*models.ResumeLog, len(logs))
	for i := range logs {
		byID[logs[i].ID] = &logs[i]
	}

	similar := make([]models.SimilarResume, 0, len(matches))
	for _, m := range matches {
		// points can outlive their log
		if resume, ok := byID[m.ResumeLogID]; ok {
			similar = append(similar, models.SimilarResume{Score: m.Score, Resume: resume})
		}
	}

	return c.JSON(similar)
}

// HandleExport handles GET /resumes/export?search=
func (h *ResumeHandler) HandleExport(c *fiber.Ctx) error {
	search := c.Query("search")

	logs, err := h.resumeLogRepo.FindMatching(search, exportRowLimit)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	data, err := services.ExportResumeLogs(logs, search)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="resumes_%s.xlsx"`, time.Now().Format("20060102_150405")))
	return c.Send(data)
}

// HandleDashboard handles GET /dashboard
func (h *ResumeHandler) HandleDashboard(c *fiber.Ctx) error {
	jobs, err := h.jobs.Count()
	if err != nil {
		return respondError(c, h.logger, err)
	}

	resumes, err := h.resumeLogRepo.Count()
	if err != nil {
		return respondError(c, h.logger, err)
	}

	byJob, err := h.resumeLogRepo.CountByJobTitle()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if byJob == nil {
		byJob = []models.JobTitleCount{}
	}

	qualified, err := h.resumeLogRepo.CountQualified()
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var rate float64
	if resumes > 0 {
		rate = float64(qualified) / float64(resumes)
	}

	return c.JSON(models.DashboardResponse{
		Jobs:          jobs,
		ResumeCount:   resumes,
		ResumesByJob:  byJob,
		QualifiedRate: rate,
	})
}
