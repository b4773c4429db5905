package services

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

type fakeJobRepo struct {
	mu    sync.Mutex
	jobs  map[uuid.UUID]models.JobConfig
	calls int
	err   error
}

func newFakeJobRepo(jobs ...models.JobConfig) *fakeJobRepo {
	r := &fakeJobRepo{jobs: make(map[uuid.UUID]models.JobConfig)}
	for _, j := range jobs {
		r.jobs[j.ID] = j
	}
	return r
}

func (r *fakeJobRepo) Create(job *models.JobConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.jobs[job.ID] = *job
	return nil
}

func (r *fakeJobRepo) Update(job *models.JobConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	existing, ok := r.jobs[job.ID]
	if !ok {
		return repositories.ErrJobConfigNotFound
	}
	job.CreatedAt = existing.CreatedAt
	r.jobs[job.ID] = *job
	return nil
}

func (r *fakeJobRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	if _, ok := r.jobs[id]; !ok {
		return repositories.ErrJobConfigNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) FindByID(id uuid.UUID) (*models.JobConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrJobConfigNotFound
	}
	return &job, nil
}

func (r *fakeJobRepo) FindAll() ([]models.JobConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.JobConfig, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (r *fakeJobRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.jobs)), nil
}

func (r *fakeJobRepo) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type fakeResumeLogRepo struct {
	mu   sync.Mutex
	logs []models.ResumeLog
	err  error
}

func (r *fakeResumeLogRepo) Create(log *models.ResumeLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeResumeLogRepo) FindByID(id uuid.UUID) (*models.ResumeLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.logs {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, repositories.ErrResumeLogNotFound
}

func (r *fakeResumeLogRepo) FindByIDs(ids []uuid.UUID) ([]models.ResumeLog, error) {
	var out []models.ResumeLog
	for _, id := range ids {
		if l, err := r.FindByID(id); err == nil {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeResumeLogRepo) Search(string, int, int) ([]models.ResumeLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logs, int64(len(r.logs)), nil
}

func (r *fakeResumeLogRepo) FindMatching(string, int) ([]models.ResumeLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logs, nil
}

func (r *fakeResumeLogRepo) FindInBatches(_ int, fn func(logs []models.ResumeLog) error) error {
	r.mu.Lock()
	logs := append([]models.ResumeLog(nil), r.logs...)
	r.mu.Unlock()
	return fn(logs)
}

func (r *fakeResumeLogRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.logs)), nil
}

func (r *fakeResumeLogRepo) CountQualified() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.logs {
		if l.Qualified {
			n++
		}
	}
	return n, nil
}

func (r *fakeResumeLogRepo) CountByJobTitle() ([]models.JobTitleCount, error) {
	return nil, nil
}

type fakeSubmissionRepo struct {
	mu   sync.Mutex
	subs map[uuid.UUID]models.Submission
}

func newFakeSubmissionRepo(subs ...models.Submission) *fakeSubmissionRepo {
	r := &fakeSubmissionRepo{subs: make(map[uuid.UUID]models.Submission)}
	for _, s := range subs {
		r.subs[s.ID] = s
	}
	return r
}

func (r *fakeSubmissionRepo) Create(sub *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.ID] = *sub
	return nil
}

func (r *fakeSubmissionRepo) FindByID(id uuid.UUID) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, repositories.ErrSubmissionNotFound
	}
	return &sub, nil
}

func (r *fakeSubmissionRepo) Claim(id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok || sub.Status != models.StatusQueued {
		return false, nil
	}
	sub.Status = models.StatusProcessing
	r.subs[id] = sub
	return true, nil
}

func (r *fakeSubmissionRepo) MarkCompleted(id uuid.UUID, resumeLogID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub := r.subs[id]
	sub.Status = models.StatusCompleted
	sub.ResumeLogID = &resumeLogID
	r.subs[id] = sub
	return nil
}

func (r *fakeSubmissionRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub := r.subs[id]
	sub.Status = models.StatusFailed
	sub.ErrorMessage = &errorMsg
	r.subs[id] = sub
	return nil
}

func (r *fakeSubmissionRepo) FindPendingJobs(limit int) ([]models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Submission
	for _, s := range r.subs {
		if s.Status == models.StatusQueued && len(out) < limit {
			out = append(out, s)
		}
	}
	return out, nil
}

// stubGemini answers every prompt with a fixed response and records prompts.
type stubGemini struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (g *stubGemini) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, errors.New("empty text")
	}
	return []float32{float32(len(text)), 1}, nil
}

func (g *stubGemini) GenerateText(_ context.Context, prompt string, _ float32) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.response, g.err
}

func (g *stubGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, _ int) (string, error) {
	return g.GenerateText(ctx, prompt, temperature)
}

func (g *stubGemini) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

type recordingIndex struct {
	mu      sync.Mutex
	indexed []uuid.UUID
	err     error
}

func (i *recordingIndex) Index(_ context.Context, log *models.ResumeLog) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.indexed = append(i.indexed, log.ID)
	return i.err
}

func (i *recordingIndex) FindSimilar(context.Context, *models.ResumeLog, int) ([]SimilarMatch, error) {
	return nil, nil
}

type memoryStorage struct {
	files map[string][]byte
}

func (s *memoryStorage) Init(context.Context) error { return nil }

func (s *memoryStorage) SaveFile(context.Context, *multipart.FileHeader, string) (string, string, error) {
	return "", "", errors.New("not supported")
}

func (s *memoryStorage) ReadFile(_ context.Context, ref string) ([]byte, error) {
	data, ok := s.files[ref]
	if !ok {
		return nil, errors.New("no such file")
	}
	return data, nil
}

func (s *memoryStorage) DeleteFile(_ context.Context, ref string) error {
	delete(s.files, ref)
	return nil
}
