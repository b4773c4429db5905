package models

import (
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/scoring"
)

// ResumeLog is the write-once record of one evaluation. JobTitle is a copy taken
// at evaluation time, not a reference to the job.
type ResumeLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateName string    `gorm:"type:text;not null;index" json:"candidate_name"`
	CandidateID   *string   `gorm:"type:text" json:"candidate_id,omitempty"`
	JobTitle      string    `gorm:"type:text;index" json:"job_title"`
	Score         float64   `gorm:"type:double precision" json:"score"`
	Qualified     bool      `gorm:"not null;default:false" json:"qualified"`
	Reasoning     string    `gorm:"type:text" json:"reasoning"`
	ResumeText    *string   `gorm:"type:text" json:"resume_text,omitempty"`
	ResumeFile    *string   `gorm:"type:text" json:"resume_file,omitempty"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (ResumeLog) TableName() string {
	return "resume_logs"
}

func (r *ResumeLog) ScoreBand() scoring.ScoreBand {
	return scoring.BandFor(r.Score)
}
