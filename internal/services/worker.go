package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/repositories"
)

const defaultPollInterval = 10 * time.Second

type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(submissionID uuid.UUID)
}

type worker struct {
	submissionRepo repositories.SubmissionRepository
	evaluator      EvaluatorService
	queue          chan uuid.UUID
	concurrency    int
	pollInterval   time.Duration
	logger         *zap.Logger
	wg             sync.WaitGroup
	stopChan       chan struct{}
	stopOnce       sync.Once
}

func NewWorker(
	submissionRepo repositories.SubmissionRepository,
	evaluator EvaluatorService,
	concurrency int,
	pollInterval time.Duration,
	logger *zap.Logger,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &worker{
		submissionRepo: submissionRepo,
		evaluator:      evaluator,
		queue:          make(chan uuid.UUID, 100),
		concurrency:    concurrency,
		pollInterval:   pollInterval,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.process(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollQueued(ctx)
}

func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("stopping worker")
		close(w.stopChan)
	})
	w.wg.Wait()
	w.logger.Info("worker stopped")
}

func (w *worker) Enqueue(submissionID uuid.UUID) {
	select {
	case w.queue <- submissionID:
		w.logger.Debug("submission enqueued", zap.String("submission_id", submissionID.String()))
	case <-w.stopChan:
		w.logger.Warn("worker stopped, submission left queued", zap.String("submission_id", submissionID.String()))
	}
}

func (w *worker) process(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.logger.With(zap.Int("worker", workerID))

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case id := <-w.queue:
			if err := w.evaluator.EvaluateSubmission(ctx, id); err != nil {
				log.Error("evaluation failed", zap.String("submission_id", id.String()), zap.Error(err))
				continue
			}
			log.Debug("evaluation done", zap.String("submission_id", id.String()))
		}
	}
}

// pollQueued picks up submissions that were stored but never reached the
// in-memory queue, for example across a restart.
func (w *worker) pollQueued(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			queued, err := w.submissionRepo.FindPendingJobs(10)
			if err != nil {
				w.logger.Warn("failed to fetch queued submissions", zap.Error(err))
				continue
			}

			if len(queued) > 0 {
				w.logger.Info("found queued submissions", zap.Int("count", len(queued)))
			}

			for _, sub := range queued {
				w.Enqueue(sub.ID)
			}
		}
	}
}
