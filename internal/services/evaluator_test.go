package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/scoring"
)

type evaluatorFixture struct {
	jobs        *fakeJobRepo
	logs        *fakeResumeLogRepo
	submissions *fakeSubmissionRepo
	gemini      *stubGemini
	index       *recordingIndex
	storage     *memoryStorage
	evaluator   EvaluatorService
}

func newEvaluatorFixture(response string) *evaluatorFixture {
	f := &evaluatorFixture{
		jobs:        newFakeJobRepo(),
		logs:        &fakeResumeLogRepo{},
		submissions: newFakeSubmissionRepo(),
		gemini:      &stubGemini{response: response},
		index:       &recordingIndex{},
		storage:     &memoryStorage{files: map[string][]byte{}},
	}
	f.evaluator = NewEvaluatorService(
		f.submissions, f.jobs, f.logs, f.gemini,
		NewResumeParserService(), f.storage, f.index,
		EvaluatorOptions{MaxRetries: 1, Temperature: 0.2},
		zap.NewNop(),
	)
	return f
}

func createWelderJob(t *testing.T, repo *fakeJobRepo) *models.JobConfig {
	t.Helper()

	svc := NewJobConfigService(repo, zap.NewNop())
	job, err := svc.Create(JobConfigInput{
		JobTitle:               "Welder",
		Weights:                scoring.WeightSetFromMap(map[string]float64{"certs": 70, "experience": 30}),
		QualificationThreshold: 60,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func TestEvaluateSubmissionWelder(t *testing.T) {
	t.Parallel()

	f := newEvaluatorFixture("```json\n{\"score\": 62, \"reasoning\": \"AWS certified, 4 years\", \"qualified\": true}\n```")
	job := createWelderJob(t, f.jobs)

	text := "Ada Lovelace. AWS D1.1 certified welder, four years of structural work."
	sub := models.Submission{
		ID:            uuid.New(),
		JobConfigID:   job.ID,
		CandidateName: "Ada Lovelace",
		ResumeText:    &text,
		Status:        models.StatusQueued,
	}
	f.submissions.Create(&sub)

	if err := f.evaluator.EvaluateSubmission(context.Background(), sub.ID); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if len(f.logs.logs) != 1 {
		t.Fatalf("expected one resume log, got %d", len(f.logs.logs))
	}
	got := f.logs.logs[0]
	if !got.Qualified || got.JobTitle != "Welder" || got.Score != 62 {
		t.Fatalf("unexpected resume log: qualified=%v job_title=%q score=%v", got.Qualified, got.JobTitle, got.Score)
	}
	if got.Reasoning != "AWS certified, 4 years" {
		t.Fatalf("unexpected reasoning %q", got.Reasoning)
	}

	stored, _ := f.submissions.FindByID(sub.ID)
	if stored.Status != models.StatusCompleted || stored.ResumeLogID == nil || *stored.ResumeLogID != got.ID {
		t.Fatalf("submission not completed: %+v", stored)
	}

	prompts := f.gemini.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(prompts))
	}
	for _, want := range []string{"Welder", `"certs": 70`, `"experience": 30`, "60", text} {
		if !strings.Contains(prompts[0], want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if len(f.index.indexed) != 1 || f.index.indexed[0] != got.ID {
		t.Fatalf("expected resume log to be indexed, got %v", f.index.indexed)
	}
}

func TestEvaluateRecomputesQualification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		response  string
		threshold int
		wantQual  bool
		wantScore float64
	}{
		{"service says no but score meets threshold", `{"score": 50, "reasoning": "ok", "qualified": false}`, 50, true, 50},
		{"service says yes but score is below", `{"score": 49, "reasoning": "close", "qualified": true}`, 50, false, 49},
		{"out of range score kept", `{"score": 101, "reasoning": "wow"}`, 50, true, 101},
		{"negative score kept", `{"score": -3, "reasoning": "bad"}`, 0, false, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newEvaluatorFixture(tt.response)
			job := &models.JobConfig{ID: uuid.New(), JobTitle: "Analyst", QualificationThreshold: tt.threshold}
			job.SetWeights(map[string]float64{"sql": 100})

			log, err := f.evaluator.Evaluate(context.Background(), job, CandidateInput{Name: "Lin", ResumeText: "SQL"})
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if log.Qualified != tt.wantQual || log.Score != tt.wantScore {
				t.Fatalf("got qualified=%v score=%v, want %v %v", log.Qualified, log.Score, tt.wantQual, tt.wantScore)
			}
		})
	}
}

func TestEvaluateSnapshotsJobTitle(t *testing.T) {
	t.Parallel()

	f := newEvaluatorFixture(`{"score": 70, "reasoning": "fine"}`)
	job := createWelderJob(t, f.jobs)

	log, err := f.evaluator.Evaluate(context.Background(), job, CandidateInput{Name: "Ada", ResumeText: "welding"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	svc := NewJobConfigService(f.jobs, zap.NewNop())
	if _, err := svc.Update(job.ID, JobConfigInput{
		JobTitle:               "Senior Welder",
		Weights:                scoring.WeightSetFromMap(map[string]float64{"certs": 100}),
		QualificationThreshold: 60,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, _ := f.logs.FindByID(log.ID)
	if stored.JobTitle != "Welder" {
		t.Fatalf("historical log changed job title to %q", stored.JobTitle)
	}
}

func TestEvaluateSubmissionFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		text     string
		wantErr  string
	}{
		{"unparseable response", "I cannot help with that", "resume", "failed to unmarshal JSON"},
		{"missing score", `{"reasoning": "no number"}`, "resume", "no score"},
		{"empty resume", `{"score": 10}`, "   ", ErrEmptyResume.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newEvaluatorFixture(tt.response)
			job := createWelderJob(t, f.jobs)
			text := tt.text
			sub := models.Submission{ID: uuid.New(), JobConfigID: job.ID, CandidateName: "Ada", ResumeText: &text, Status: models.StatusQueued}
			f.submissions.Create(&sub)

			err := f.evaluator.EvaluateSubmission(context.Background(), sub.ID)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}

			stored, _ := f.submissions.FindByID(sub.ID)
			if stored.Status != models.StatusFailed || stored.ErrorMessage == nil {
				t.Fatalf("expected failed submission, got %+v", stored)
			}
			if len(f.logs.logs) != 0 {
				t.Fatalf("no resume log should be written on failure")
			}
		})
	}
}

func TestEvaluateSubmissionReadsStoredFile(t *testing.T) {
	t.Parallel()

	f := newEvaluatorFixture(`{"score": 88, "reasoning": "strong"}`)
	job := createWelderJob(t, f.jobs)
	f.storage.files["uploads/resume_1.txt"] = []byte("Grace Hopper\nNavy welder")

	name := "resume_1.txt"
	path := "uploads/resume_1.txt"
	sub := models.Submission{ID: uuid.New(), JobConfigID: job.ID, CandidateName: "Grace", FileName: &name, FilePath: &path, Status: models.StatusQueued}
	f.submissions.Create(&sub)

	if err := f.evaluator.EvaluateSubmission(context.Background(), sub.ID); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	got := f.logs.logs[0]
	if got.ResumeText == nil || !strings.Contains(*got.ResumeText, "Navy welder") {
		t.Fatalf("expected resume text from stored file, got %v", got.ResumeText)
	}
	if got.ResumeFile == nil || *got.ResumeFile != name {
		t.Fatalf("expected resume file reference %q", name)
	}
}

func TestEvaluateSubmissionSkipsClaimed(t *testing.T) {
	t.Parallel()

	f := newEvaluatorFixture(`{"score": 88}`)
	sub := models.Submission{ID: uuid.New(), Status: models.StatusProcessing}
	f.submissions.Create(&sub)

	if err := f.evaluator.EvaluateSubmission(context.Background(), sub.ID); err != nil {
		t.Fatalf("expected claimed submission to be skipped, got %v", err)
	}
	if len(f.gemini.Prompts()) != 0 {
		t.Fatalf("reasoning service must not be called for a claimed submission")
	}
}

func TestEvaluateIndexFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	f := newEvaluatorFixture(`{"score": 75, "reasoning": "ok"}`)
	f.index.err = errors.New("qdrant down")
	job := createWelderJob(t, f.jobs)

	if _, err := f.evaluator.Evaluate(context.Background(), job, CandidateInput{Name: "Ada", ResumeText: "x"}); err != nil {
		t.Fatalf("index failure should only be logged, got %v", err)
	}
	if len(f.logs.logs) != 1 {
		t.Fatalf("resume log should still be stored")
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{`{"score": 1}`, `{"score": 1}`},
		{"```json\n{\"score\": 1}\n```", `{"score": 1}`},
		{"Here you go: {\"a\": {\"b\": 2}} thanks", `{"a": {"b": 2}}`},
		{"no json", "no json"},
	}
	for _, tt := range tests {
		if got := extractJSON(tt.in); got != tt.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
