package services

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	TokenJobTitle               = "{{JOB_TITLE}}"
	TokenWeights                = "{{WEIGHTS}}"
	TokenResumeText             = "{{RESUME_TEXT}}"
	TokenQualificationThreshold = "{{QUALIFICATION_THRESHOLD}}"
)

// DefaultPromptTemplate is used for jobs whose template is blank.
const DefaultPromptTemplate = `
You are an AI recruiter helping evaluate resumes for a job opening.

The job title and evaluation criteria are provided below. Use them to score the resume and determine if the candidate qualifies.

-------------------------------
Job Title: {{JOB_TITLE}}

Evaluation Weights (JSON):
{{WEIGHTS}}

Candidate Resume:
{{RESUME_TEXT}}
-------------------------------

Instructions:
- Use the scoring weights to calculate a total score from 0 to 100.
- Base the score on job title matches, keywords, experience, or other indicators provided in the weights.
- If the resume does not contain strong enough matches, give a lower score.
- If it meets most or all criteria, give a higher score.
- Use your best judgment based on the resume contents.

A score greater than or equal to {{QUALIFICATION_THRESHOLD}} is considered "qualified".

Respond ONLY in this format:

{
  "score": <0-100>,
  "reasoning": "<short explanation>",
  "qualified": true or false
}
`

type PromptRenderContext struct {
	JobTitle               string
	Weights                map[string]float64
	ResumeText             string
	QualificationThreshold int
}

// PromptTemplateEngine substitutes the four job placeholders into a template.
// It holds no state; the same input always renders the same output.
type PromptTemplateEngine struct{}

func NewPromptTemplateEngine() *PromptTemplateEngine {
	return &PromptTemplateEngine{}
}

// Render replaces every occurrence of the known tokens in one pass, so text
// coming from the resume is never scanned for tokens itself. Unknown
// placeholders are kept verbatim.
func (pe *PromptTemplateEngine) Render(template string, ctx PromptRenderContext) string {
	replacer := strings.NewReplacer(
		TokenJobTitle, ctx.JobTitle,
		TokenWeights, SerializeWeights(ctx.Weights),
		TokenResumeText, ctx.ResumeText,
		TokenQualificationThreshold, strconv.Itoa(ctx.QualificationThreshold),
	)
	return replacer.Replace(template)
}

// TemplateOrDefault falls back to DefaultPromptTemplate for blank templates.
func TemplateOrDefault(template string) string {
	if strings.TrimSpace(template) == "" {
		return DefaultPromptTemplate
	}
	return template
}

// SerializeWeights renders the mapping as indented JSON with sorted keys.
func SerializeWeights(weights map[string]float64) string {
	if weights == nil {
		weights = map[string]float64{}
	}
	raw, err := json.MarshalIndent(weights, "", "  ")
	if err != nil {
		// only non-finite values fail to encode and commit never keeps those
		return "{}"
	}
	return string(raw)
}
