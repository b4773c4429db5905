package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
)

var ErrJobConfigNotFound = errors.New("job config not found")

type JobConfigRepository interface {
	Create(job *models.JobConfig) error
	Update(job *models.JobConfig) error
	Delete(id uuid.UUID) error
	FindByID(id uuid.UUID) (*models.JobConfig, error)
	FindAll() ([]models.JobConfig, error)
	Count() (int64, error)
}

type jobConfigRepository struct {
	db *gorm.DB
}

func NewJobConfigRepository(db *gorm.DB) JobConfigRepository {
	return &jobConfigRepository{db: db}
}

func (r *jobConfigRepository) Create(job *models.JobConfig) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job config: %w", err)
	}
	return nil
}

// Update rewrites every mutable column, zero values included.
func (r *jobConfigRepository) Update(job *models.JobConfig) error {
	result := r.db.Model(&models.JobConfig{}).
		Where("id = ?", job.ID).
		Select("job_title", "prompt_template", "weights", "qualification_threshold", "auto_move_qualified", "updated_at").
		Updates(job)

	if result.Error != nil {
		return fmt.Errorf("failed to update job config: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrJobConfigNotFound
	}

	return nil
}

func (r *jobConfigRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.JobConfig{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete job config: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrJobConfigNotFound
	}

	return nil
}

func (r *jobConfigRepository) FindByID(id uuid.UUID) (*models.JobConfig, error) {
	var job models.JobConfig
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobConfigNotFound
		}
		return nil, fmt.Errorf("failed to find job config: %w", err)
	}
	return &job, nil
}

func (r *jobConfigRepository) FindAll() ([]models.JobConfig, error) {
	var jobs []models.JobConfig
	if err := r.db.Order("job_title ASC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list job configs: %w", err)
	}
	return jobs, nil
}

func (r *jobConfigRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.JobConfig{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count job configs: %w", err)
	}
	return count, nil
}
