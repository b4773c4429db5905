package models

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	StatusQueued     SubmissionStatus = "queued"
	StatusProcessing SubmissionStatus = "processing"
	StatusCompleted  SubmissionStatus = "completed"
	StatusFailed     SubmissionStatus = "failed"
)

// Submission is a resume waiting for (or done with) evaluation against a job.
type Submission struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobConfigID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"job_config_id"`
	CandidateName string           `gorm:"type:text;not null" json:"candidate_name"`
	CandidateID   *string          `gorm:"type:text" json:"candidate_id,omitempty"`
	ResumeText    *string          `gorm:"type:text" json:"-"`
	FileName      *string          `gorm:"type:text" json:"file_name,omitempty"`
	FilePath      *string          `gorm:"type:text" json:"-"`
	Status        SubmissionStatus `gorm:"not null;default:'queued'" json:"status"`
	ResumeLogID   *uuid.UUID       `gorm:"type:uuid" json:"resume_log_id,omitempty"`
	ErrorMessage  *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt     time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Submission) TableName() string {
	return "submissions"
}
