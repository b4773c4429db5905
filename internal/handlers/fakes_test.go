package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/browse"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type memJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]models.JobConfig
}

func (r *memJobRepo) Create(job *models.JobConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = *job
	return nil
}

func (r *memJobRepo) Update(job *models.JobConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return repositories.ErrJobConfigNotFound
	}
	r.jobs[job.ID] = *job
	return nil
}

func (r *memJobRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return repositories.ErrJobConfigNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *memJobRepo) FindByID(id uuid.UUID) (*models.JobConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrJobConfigNotFound
	}
	return &job, nil
}

func (r *memJobRepo) FindAll() ([]models.JobConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.JobConfig, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JobTitle < out[j].JobTitle })
	return out, nil
}

func (r *memJobRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.jobs)), nil
}

// memResumeLogRepo keeps logs newest first.
type memResumeLogRepo struct {
	logs []models.ResumeLog
}

func (r *memResumeLogRepo) Create(log *models.ResumeLog) error {
	r.logs = append([]models.ResumeLog{*log}, r.logs...)
	return nil
}

func (r *memResumeLogRepo) FindByID(id uuid.UUID) (*models.ResumeLog, error) {
	for i := range r.logs {
		if r.logs[i].ID == id {
			l := r.logs[i]
			return &l, nil
		}
	}
	return nil, repositories.ErrResumeLogNotFound
}

func (r *memResumeLogRepo) FindByIDs(ids []uuid.UUID) ([]models.ResumeLog, error) {
	var out []models.ResumeLog
	for _, id := range ids {
		if l, err := r.FindByID(id); err == nil {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *memResumeLogRepo) matching(search string) []models.ResumeLog {
	search = strings.ToLower(strings.TrimSpace(search))
	var out []models.ResumeLog
	for _, l := range r.logs {
		if strings.Contains(strings.ToLower(l.CandidateName), search) {
			out = append(out, l)
		}
	}
	return out
}

func (r *memResumeLogRepo) Search(search string, page, pageSize int) ([]models.ResumeLog, int64, error) {
	all := r.matching(search)
	offset, limit := browse.Window(page, pageSize)
	if offset >= len(all) {
		return nil, int64(len(all)), nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], int64(len(all)), nil
}

func (r *memResumeLogRepo) FindMatching(search string, limit int) ([]models.ResumeLog, error) {
	all := r.matching(search)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memResumeLogRepo) FindInBatches(_ int, fn func(logs []models.ResumeLog) error) error {
	return fn(r.logs)
}

func (r *memResumeLogRepo) Count() (int64, error) {
	return int64(len(r.logs)), nil
}

func (r *memResumeLogRepo) CountQualified() (int64, error) {
	var n int64
	for _, l := range r.logs {
		if l.Qualified {
			n++
		}
	}
	return n, nil
}

func (r *memResumeLogRepo) CountByJobTitle() ([]models.JobTitleCount, error) {
	counts := map[string]int64{}
	for _, l := range r.logs {
		counts[l.JobTitle]++
	}
	var out []models.JobTitleCount
	for title, n := range counts {
		out = append(out, models.JobTitleCount{JobTitle: title, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JobTitle < out[j].JobTitle })
	return out, nil
}

type memSubmissionRepo struct {
	mu   sync.Mutex
	subs map[uuid.UUID]models.Submission
}

func (r *memSubmissionRepo) Create(sub *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.ID] = *sub
	return nil
}

func (r *memSubmissionRepo) FindByID(id uuid.UUID) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, repositories.ErrSubmissionNotFound
	}
	return &sub, nil
}

func (r *memSubmissionRepo) Claim(uuid.UUID) (bool, error) { return true, nil }

func (r *memSubmissionRepo) MarkCompleted(id uuid.UUID, resumeLogID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub := r.subs[id]
	sub.Status = models.StatusCompleted
	sub.ResumeLogID = &resumeLogID
	r.subs[id] = sub
	return nil
}

func (r *memSubmissionRepo) UpdateError(id uuid.UUID, msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub := r.subs[id]
	sub.Status = models.StatusFailed
	sub.ErrorMessage = &msg
	r.subs[id] = sub
	return nil
}

func (r *memSubmissionRepo) FindPendingJobs(int) ([]models.Submission, error) { return nil, nil }

type queueRecorder struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (q *queueRecorder) Start(context.Context) {}
func (q *queueRecorder) Stop()                 {}

func (q *queueRecorder) Enqueue(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, id)
}

type fixedIndex struct {
	matches []services.SimilarMatch
}

func (i *fixedIndex) Index(context.Context, *models.ResumeLog) error { return nil }

func (i *fixedIndex) FindSimilar(context.Context, *models.ResumeLog, int) ([]services.SimilarMatch, error) {
	return i.matches, nil
}
