package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/browse"
	"alfredoptarigan/resume-screener/internal/models"
)

var ErrResumeLogNotFound = errors.New("resume log not found")

type ResumeLogRepository interface {
	Create(log *models.ResumeLog) error
	FindByID(id uuid.UUID) (*models.ResumeLog, error)
	FindByIDs(ids []uuid.UUID) ([]models.ResumeLog, error)
	Search(search string, page, pageSize int) ([]models.ResumeLog, int64, error)
	FindMatching(search string, limit int) ([]models.ResumeLog, error)
	FindInBatches(batchSize int, fn func(logs []models.ResumeLog) error) error
	Count() (int64, error)
	CountQualified() (int64, error)
	CountByJobTitle() ([]models.JobTitleCount, error)
}

type resumeLogRepository struct {
	db *gorm.DB
}

func NewResumeLogRepository(db *gorm.DB) ResumeLogRepository {
	return &resumeLogRepository{db: db}
}

func (r *resumeLogRepository) Create(log *models.ResumeLog) error {
	if err := r.db.Create(log).Error; err != nil {
		return fmt.Errorf("failed to create resume log: %w", err)
	}
	return nil
}

func (r *resumeLogRepository) FindByID(id uuid.UUID) (*models.ResumeLog, error) {
	var log models.ResumeLog
	if err := r.db.Where("id = ?", id).First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResumeLogNotFound
		}
		return nil, fmt.Errorf("failed to find resume log: %w", err)
	}
	return &log, nil
}

func (r *resumeLogRepository) FindByIDs(ids []uuid.UUID) ([]models.ResumeLog, error) {
	var logs []models.ResumeLog
	if len(ids) == 0 {
		return logs, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to find resume logs: %w", err)
	}
	return logs, nil
}

// Search returns one page of logs, newest first, whose candidate name contains
// search (case-insensitive), together with the total number of matches.
func (r *resumeLogRepository) Search(search string, page, pageSize int) ([]models.ResumeLog, int64, error) {
	var total int64
	if err := r.filtered(search).Model(&models.ResumeLog{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count resume logs: %w", err)
	}

	offset, limit := browse.Window(page, pageSize)

	var logs []models.ResumeLog
	err := r.filtered(search).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search resume logs: %w", err)
	}

	return logs, total, nil
}

func (r *resumeLogRepository) FindMatching(search string, limit int) ([]models.ResumeLog, error) {
	var logs []models.ResumeLog
	query := r.filtered(search).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list resume logs: %w", err)
	}
	return logs, nil
}

func (r *resumeLogRepository) FindInBatches(batchSize int, fn func(logs []models.ResumeLog) error) error {
	var batch []models.ResumeLog
	result := r.db.Order("created_at ASC").FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	})
	if result.Error != nil {
		return fmt.Errorf("failed to iterate resume logs: %w", result.Error)
	}
	return nil
}

func (r *resumeLogRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.ResumeLog{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count resume logs: %w", err)
	}
	return count, nil
}

func (r *resumeLogRepository) CountQualified() (int64, error) {
	var count int64
	if err := r.db.Model(&models.ResumeLog{}).Where("qualified = ?", true).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count qualified resume logs: %w", err)
	}
	return count, nil
}

func (r *resumeLogRepository) CountByJobTitle() ([]models.JobTitleCount, error) {
	var counts []models.JobTitleCount
	err := r.db.Model(&models.ResumeLog{}).
		Select("job_title, COUNT(*) AS count").
		Where("job_title <> ''").
		Group("job_title").
		Order("job_title ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count resume logs by job: %w", err)
	}
	return counts, nil
}

func (r *resumeLogRepository) filtered(search string) *gorm.DB {
	query := r.db
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("candidate_name ILIKE ?", "%"+EscapeLike(search)+"%")
	}
	return query
}

// EscapeLike escapes LIKE wildcards so the term matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
