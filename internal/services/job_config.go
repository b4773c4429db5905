package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/scoring"
)

// JobConfigInput is a full replacement of a job's editable fields.
type JobConfigInput struct {
	JobTitle               string
	PromptTemplate         string
	Weights                *scoring.WeightSet
	QualificationThreshold int
	AutoMoveQualified      bool
}

// JobConfigInputFromRequest builds the editing session for an API request. A
// missing threshold defaults to 50.
func JobConfigInputFromRequest(req models.JobConfigRequest) JobConfigInput {
	ws := scoring.NewWeightSet()
	for i, row := range req.Weights {
		ws.AddTerm()
		ws.SetTerm(i, row.Term)
		ws.SetNumber(i, row.Value)
	}

	threshold := scoring.DefaultQualificationThreshold
	if req.QualificationThreshold != nil {
		threshold = *req.QualificationThreshold
	}

	return JobConfigInput{
		JobTitle:               req.JobTitle,
		PromptTemplate:         req.PromptTemplate,
		Weights:                ws,
		QualificationThreshold: threshold,
		AutoMoveQualified:      req.AutoMoveQualified,
	}
}

type JobConfigService interface {
	Create(input JobConfigInput) (*models.JobConfig, error)
	Update(id uuid.UUID, input JobConfigInput) (*models.JobConfig, error)
	Delete(id uuid.UUID, confirmed bool) error
	Get(id uuid.UUID) (*models.JobConfig, error)
	List() ([]models.JobConfig, error)
	Count() (int64, error)
}

type jobConfigService struct {
	repo   repositories.JobConfigRepository
	logger *zap.Logger
}

func NewJobConfigService(repo repositories.JobConfigRepository, logger *zap.Logger) JobConfigService {
	return &jobConfigService{repo: repo, logger: logger}
}

func (s *jobConfigService) Create(input JobConfigInput) (*models.JobConfig, error) {
	weights, err := validateJobConfig(input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job := &models.JobConfig{
		ID:                     uuid.New(),
		JobTitle:               strings.TrimSpace(input.JobTitle),
		PromptTemplate:         input.PromptTemplate,
		QualificationThreshold: input.QualificationThreshold,
		AutoMoveQualified:      input.AutoMoveQualified,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := job.SetWeights(weights); err != nil {
		return nil, err
	}

	if err := s.repo.Create(job); err != nil {
		s.logger.Error("failed to create job config", zap.String("job_title", job.JobTitle), zap.Error(err))
		return nil, &PersistenceError{Op: "create job config", Err: err}
	}

	s.logger.Info("job config created", zap.String("id", job.ID.String()), zap.String("job_title", job.JobTitle))
	return job, nil
}

func (s *jobConfigService) Update(id uuid.UUID, input JobConfigInput) (*models.JobConfig, error) {
	weights, err := validateJobConfig(input)
	if err != nil {
		return nil, err
	}

	job := &models.JobConfig{
		ID:                     id,
		JobTitle:               strings.TrimSpace(input.JobTitle),
		PromptTemplate:         input.PromptTemplate,
		QualificationThreshold: input.QualificationThreshold,
		AutoMoveQualified:      input.AutoMoveQualified,
		UpdatedAt:              time.Now(),
	}
	if err := job.SetWeights(weights); err != nil {
		return nil, err
	}

	if err := s.repo.Update(job); err != nil {
		if errors.Is(err, repositories.ErrJobConfigNotFound) {
			return nil, ErrJobNotFound
		}
		s.logger.Error("failed to update job config", zap.String("id", id.String()), zap.Error(err))
		return nil, &PersistenceError{Op: "update job config", Err: err}
	}

	s.logger.Info("job config updated", zap.String("id", id.String()), zap.String("job_title", job.JobTitle))
	return s.Get(id)
}

func (s *jobConfigService) Delete(id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return ErrDeleteNotConfirmed
	}

	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrJobConfigNotFound) {
			return ErrJobNotFound
		}
		s.logger.Error("failed to delete job config", zap.String("id", id.String()), zap.Error(err))
		return &PersistenceError{Op: "delete job config", Err: err}
	}

	s.logger.Info("job config deleted", zap.String("id", id.String()))
	return nil
}

func (s *jobConfigService) Get(id uuid.UUID) (*models.JobConfig, error) {
	job, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrJobConfigNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, &PersistenceError{Op: "load job config", Err: err}
	}
	return job, nil
}

func (s *jobConfigService) List() ([]models.JobConfig, error) {
	jobs, err := s.repo.FindAll()
	if err != nil {
		return nil, &PersistenceError{Op: "list job configs", Err: err}
	}
	return jobs, nil
}

func (s *jobConfigService) Count() (int64, error) {
	count, err := s.repo.Count()
	if err != nil {
		return 0, &PersistenceError{Op: "count job configs", Err: err}
	}
	return count, nil
}

func validateJobConfig(input JobConfigInput) (map[string]float64, error) {
	if strings.TrimSpace(input.JobTitle) == "" {
		return nil, &ValidationError{Field: "job_title", Message: "job title is required"}
	}

	if input.QualificationThreshold < 0 || input.QualificationThreshold > 100 {
		return nil, &ValidationError{
			Field:   "qualification_threshold",
			Message: fmt.Sprintf("must be between 0 and 100, got %d", input.QualificationThreshold),
		}
	}

	ws := input.Weights
	if ws == nil {
		ws = scoring.NewWeightSet()
	}

	weights, sum := ws.Commit()
	if !ws.IsComplete() {
		return nil, &ValidationError{
			Field:   "weights",
			Message: fmt.Sprintf("weights must add up to %g, currently %g", scoring.RequiredWeightTotal, sum),
		}
	}

	return weights, nil
}
