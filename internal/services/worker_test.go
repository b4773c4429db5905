package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
)

type signalingEvaluator struct {
	done chan uuid.UUID
}

func (e *signalingEvaluator) EvaluateSubmission(_ context.Context, id uuid.UUID) error {
	select {
	case e.done <- id:
	default:
	}
	return nil
}

func (e *signalingEvaluator) Evaluate(context.Context, *models.JobConfig, CandidateInput) (*models.ResumeLog, error) {
	return nil, nil
}

func TestWorkerProcessesEnqueuedAndPolled(t *testing.T) {
	t.Parallel()

	queued := models.Submission{ID: uuid.New(), Status: models.StatusQueued}
	repo := newFakeSubmissionRepo(queued)
	eval := &signalingEvaluator{done: make(chan uuid.UUID, 16)}

	w := NewWorker(repo, eval, 2, 20*time.Millisecond, zap.NewNop())
	w.Start(context.Background())
	defer w.Stop()

	direct := uuid.New()
	w.Enqueue(direct)

	want := map[uuid.UUID]bool{direct: true, queued.ID: true}
	deadline := time.After(2 * time.Second)
	for len(want) > 0 {
		select {
		case id := <-eval.done:
			delete(want, id)
		case <-deadline:
			t.Fatalf("timed out, still waiting for %v", want)
		}
	}
}

func TestWorkerStopIsIdempotent(t *testing.T) {
	t.Parallel()

	eval := &signalingEvaluator{done: make(chan uuid.UUID, 1)}
	w := NewWorker(newFakeSubmissionRepo(), eval, 1, time.Hour, zap.NewNop())
	w.Start(context.Background())
	w.Stop()
	w.Stop()

	// enqueue after stop must not block
	finished := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			w.Enqueue(uuid.New())
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatalf("enqueue blocked after stop")
	}
}
