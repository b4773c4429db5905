package models

import "alfredoptarigan/resume-screener/internal/scoring"

type JobConfigRequest struct {
	JobTitle               string              `json:"job_title"`
	PromptTemplate         string              `json:"prompt_template"`
	Weights                []scoring.WeightRow `json:"weights"`
	QualificationThreshold *int                `json:"qualification_threshold"`
	AutoMoveQualified      bool                `json:"auto_move_qualified"`
}

type SubmitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type SubmissionResponse struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	Result       *ResumeLog `json:"result,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}

type ResumePageResponse struct {
	Items      []ResumeLog `json:"items"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}

type JobTitleCount struct {
	JobTitle string `json:"job_title"`
	Count    int64  `json:"count"`
}

type DashboardResponse struct {
	Jobs          int64           `json:"jobs"`
	ResumeCount   int64           `json:"resumes_processed"`
	ResumesByJob  []JobTitleCount `json:"resumes_by_job"`
	QualifiedRate float64         `json:"qualified_rate"`
}

type SimilarResume struct {
	Score  float32    `json:"score"`
	Resume *ResumeLog `json:"resume"`
}

type PromptPreviewRequest struct {
	PromptTemplate         string              `json:"prompt_template"`
	JobTitle               string              `json:"job_title"`
	Weights                []scoring.WeightRow `json:"weights"`
	ResumeText             string              `json:"resume_text"`
	QualificationThreshold *int                `json:"qualification_threshold"`
}
