package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type JobConfig struct {
	ID                     uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobTitle               string         `gorm:"type:text;not null" json:"job_title"`
	PromptTemplate         string         `gorm:"type:text" json:"prompt_template"`
	Weights                datatypes.JSON `gorm:"type:jsonb" json:"weights"`
	QualificationThreshold int            `gorm:"not null;default:50" json:"qualification_threshold"`
	AutoMoveQualified      bool           `gorm:"not null;default:false" json:"auto_move_qualified"`
	CreatedAt              time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt              time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (JobConfig) TableName() string {
	return "job_configs"
}

// WeightMap decodes the stored weights column.
func (j *JobConfig) WeightMap() (map[string]float64, error) {
	weights := make(map[string]float64)
	if len(j.Weights) == 0 {
		return weights, nil
	}
	if err := json.Unmarshal(j.Weights, &weights); err != nil {
		return nil, fmt.Errorf("failed to decode weights: %w", err)
	}
	return weights, nil
}

func (j *JobConfig) SetWeights(weights map[string]float64) error {
	raw, err := json.Marshal(weights)
	if err != nil {
		return fmt.Errorf("failed to encode weights: %w", err)
	}
	j.Weights = datatypes.JSON(raw)
	return nil
}
