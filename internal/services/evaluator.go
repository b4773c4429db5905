package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/scoring"
)

var ErrEmptyResume = errors.New("resume has no text to evaluate")

// CandidateInput is one resume to score against a job.
type CandidateInput struct {
	Name       string
	ID         *string
	ResumeText string
	ResumeFile *string
}

// ScoringResult is the shape the reasoning service must answer with.
type ScoringResult struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
	Qualified *bool   `json:"qualified"`
}

type EvaluatorService interface {
	EvaluateSubmission(ctx context.Context, submissionID uuid.UUID) error
	Evaluate(ctx context.Context, job *models.JobConfig, candidate CandidateInput) (*models.ResumeLog, error)
}

type EvaluatorOptions struct {
	MaxRetries  int
	Temperature float32
}

type evaluatorService struct {
	submissionRepo repositories.SubmissionRepository
	jobRepo        repositories.JobConfigRepository
	resumeLogRepo  repositories.ResumeLogRepository
	geminiService  GeminiService
	parser         ResumeParserService
	storage        StorageService
	index          ResumeIndex
	engine         *PromptTemplateEngine
	opts           EvaluatorOptions
	logger         *zap.Logger
}

// NewEvaluatorService wires the write path. index may be nil when no vector
// store is configured.
func NewEvaluatorService(
	submissionRepo repositories.SubmissionRepository,
	jobRepo repositories.JobConfigRepository,
	resumeLogRepo repositories.ResumeLogRepository,
	geminiService GeminiService,
	parser ResumeParserService,
	storage StorageService,
	index ResumeIndex,
	opts EvaluatorOptions,
	logger *zap.Logger,
) EvaluatorService {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	return &evaluatorService{
		submissionRepo: submissionRepo,
		jobRepo:        jobRepo,
		resumeLogRepo:  resumeLogRepo,
		geminiService:  geminiService,
		parser:         parser,
		storage:        storage,
		index:          index,
		engine:         NewPromptTemplateEngine(),
		opts:           opts,
		logger:         logger,
	}
}

func (e *evaluatorService) EvaluateSubmission(ctx context.Context, submissionID uuid.UUID) error {
	log := e.logger.With(zap.String("submission_id", submissionID.String()))

	claimed, err := e.submissionRepo.Claim(submissionID)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if !claimed {
		log.Debug("submission already claimed")
		return nil
	}
	log.Info("starting evaluation")

	sub, err := e.submissionRepo.FindByID(submissionID)
	if err != nil {
		return e.fail(submissionID, fmt.Errorf("failed to get submission: %w", err))
	}

	job, err := e.jobRepo.FindByID(sub.JobConfigID)
	if err != nil {
		return e.fail(submissionID, fmt.Errorf("failed to get job config %s: %w", sub.JobConfigID, err))
	}

	text, err := e.resumeText(ctx, sub)
	if err != nil {
		return e.fail(submissionID, err)
	}

	resumeLog, err := e.Evaluate(ctx, job, CandidateInput{
		Name:       sub.CandidateName,
		ID:         sub.CandidateID,
		ResumeText: text,
		ResumeFile: sub.FileName,
	})
	if err != nil {
		return e.fail(submissionID, err)
	}

	if err := e.submissionRepo.MarkCompleted(submissionID, resumeLog.ID); err != nil {
		return fmt.Errorf("failed to mark submission completed: %w", err)
	}

	log.Info("evaluation completed",
		zap.String("resume_log_id", resumeLog.ID.String()),
		zap.Float64("score", resumeLog.Score),
		zap.Bool("qualified", resumeLog.Qualified),
	)
	return nil
}

// Evaluate renders the job prompt for one resume, asks the reasoning service for
// a score, recomputes qualification against the job threshold and stores the log.
func (e *evaluatorService) Evaluate(ctx context.Context, job *models.JobConfig, candidate CandidateInput) (*models.ResumeLog, error) {
	text := strings.TrimSpace(candidate.ResumeText)
	if text == "" {
		return nil, ErrEmptyResume
	}

	weights, err := job.WeightMap()
	if err != nil {
		return nil, err
	}

	prompt := e.engine.Render(TemplateOrDefault(job.PromptTemplate), PromptRenderContext{
		JobTitle:               job.JobTitle,
		Weights:                weights,
		ResumeText:             text,
		QualificationThreshold: job.QualificationThreshold,
	})
	e.logger.Debug("rendered prompt",
		zap.String("job_title", job.JobTitle),
		zap.Int("length", len(prompt)),
	)

	response, err := e.geminiService.GenerateTextWithRetry(ctx, prompt, e.opts.Temperature, e.opts.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate evaluation: %w", err)
	}

	result, err := parseScoringResult(response)
	if err != nil {
		e.logger.Warn("unparseable evaluation response", zap.String("response", logger.TruncateForLog(response, 300)))
		return nil, err
	}

	if !scoring.ScoreInRange(result.Score) {
		e.logger.Warn("score outside 0..100 recorded as-is",
			zap.String("candidate", candidate.Name),
			zap.Float64("score", result.Score),
		)
	}

	qualified := scoring.Qualifies(result.Score, float64(job.QualificationThreshold))
	if result.Qualified != nil && *result.Qualified != qualified {
		e.logger.Info("reasoning service qualification overridden by threshold",
			zap.String("candidate", candidate.Name),
			zap.Float64("score", result.Score),
			zap.Int("threshold", job.QualificationThreshold),
			zap.Bool("service_qualified", *result.Qualified),
		)
	}

	resumeLog := &models.ResumeLog{
		ID:            uuid.New(),
		CandidateName: candidate.Name,
		CandidateID:   candidate.ID,
		JobTitle:      job.JobTitle,
		Score:         result.Score,
		Qualified:     qualified,
		Reasoning:     strings.TrimSpace(result.Reasoning),
		ResumeText:    &text,
		ResumeFile:    candidate.ResumeFile,
		CreatedAt:     time.Now(),
	}

	if err := e.resumeLogRepo.Create(resumeLog); err != nil {
		return nil, &PersistenceError{Op: "save resume log", Err: err}
	}

	if e.index != nil {
		if err := e.index.Index(ctx, resumeLog); err != nil {
			e.logger.Warn("failed to index resume", zap.String("resume_log_id", resumeLog.ID.String()), zap.Error(err))
		}
	}

	return resumeLog, nil
}

func (e *evaluatorService) resumeText(ctx context.Context, sub *models.Submission) (string, error) {
	if sub.ResumeText != nil && strings.TrimSpace(*sub.ResumeText) != "" {
		return *sub.ResumeText, nil
	}
	if sub.FilePath == nil {
		return "", ErrEmptyResume
	}

	data, err := e.storage.ReadFile(ctx, *sub.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to read resume file: %w", err)
	}

	name := filepath.Base(*sub.FilePath)
	if sub.FileName != nil {
		name = *sub.FileName
	}

	text, err := e.parser.ExtractText(name, data)
	if err != nil {
		return "", fmt.Errorf("failed to parse resume: %w", err)
	}
	return text, nil
}

func (e *evaluatorService) fail(submissionID uuid.UUID, cause error) error {
	if err := e.submissionRepo.UpdateError(submissionID, cause.Error()); err != nil {
		e.logger.Error("failed to record submission error", zap.String("submission_id", submissionID.String()), zap.Error(err))
	}
	return cause
}

func parseScoringResult(response string) (*ScoringResult, error) {
	if strings.TrimSpace(response) == "" {
		return nil, errors.New("empty response from reasoning service")
	}

	body := []byte(extractJSON(response))

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	if _, ok := raw["score"]; !ok {
		return nil, errors.New("evaluation response has no score")
	}

	var result ScoringResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation response: %w", err)
	}
	return &result, nil
}

// extractJSON pulls the JSON object out of text that may be wrapped in markdown.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return strings.TrimSpace(text)
}
