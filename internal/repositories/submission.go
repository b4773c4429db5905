package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type SubmissionRepository interface {
	Create(sub *models.Submission) error
	FindByID(id uuid.UUID) (*models.Submission, error)
	Claim(id uuid.UUID) (bool, error)
	MarkCompleted(id uuid.UUID, resumeLogID uuid.UUID) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(sub *models.Submission) error {
	if err := r.db.Create(sub).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) FindByID(id uuid.UUID) (*models.Submission, error) {
	var sub models.Submission
	if err := r.db.Where("id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}
	return &sub, nil
}

// Claim moves a queued submission to processing. It reports false when another
// worker already took it.
func (r *submissionRepository) Claim(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.Submission{}).
		Where("id = ? AND status = ?", id, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim submission: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *submissionRepository) MarkCompleted(id uuid.UUID, resumeLogID uuid.UUID) error {
	return r.update(id, map[string]interface{}{
		"status":        models.StatusCompleted,
		"resume_log_id": resumeLogID,
		"updated_at":    time.Now(),
	})
}

func (r *submissionRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	return r.update(id, map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMsg,
		"updated_at":    time.Now(),
	})
}

func (r *submissionRepository) FindPendingJobs(limit int) ([]models.Submission, error) {
	var subs []models.Submission
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&subs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending submissions: %w", err)
	}

	return subs, nil
}

func (r *submissionRepository) update(id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update submission: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}

	return nil
}
