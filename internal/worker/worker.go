package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hirescreen/job-screening/internal/models"
	"hirescreen/job-screening/internal/pipeline"
	"hirescreen/job-screening/internal/repositories"
)

// Runner is the screening pipeline surface the worker drives.
type Runner interface {
	Run(ctx context.Context, jobTitle, company, jdFilePath string, cvFilePaths []string) *pipeline.ScreeningState
}

// Worker executes queued screening runs. Runs are picked up either directly
// through Enqueue or by the periodic poll over pending rows.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(runID uuid.UUID)
}

type worker struct {
	runs        repositories.ScreeningRunRepository
	runner      Runner
	queue       chan uuid.UUID
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	logger      *zap.Logger
}

func New(runs repositories.ScreeningRunRepository, runner Runner, concurrency int, logger *zap.Logger) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &worker{
		runs:        runs,
		runner:      runner,
		queue:       make(chan uuid.UUID, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		logger:      logger,
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processRuns(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPending(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.logger.Info("stopping worker")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("worker stopped")
}

// Enqueue implements Worker.
func (w *worker) Enqueue(runID uuid.UUID) {
	select {
	case w.queue <- runID:
		w.logger.Info("screening run enqueued", zap.String("run_id", runID.String()))
	case <-w.stopChan:
		w.logger.Warn("worker stopped, run not enqueued", zap.String("run_id", runID.String()))
	}
}

func (w *worker) processRuns(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			w.logger.Info("worker goroutine stopped", zap.Int("worker", workerID))
			return
		case runID := <-w.queue:
			w.logger.Info("processing screening run",
				zap.Int("worker", workerID),
				zap.String("run_id", runID.String()))
			w.processRun(ctx, runID)
		}
	}
}

func (w *worker) processRun(ctx context.Context, runID uuid.UUID) {
	run, err := w.runs.FindByID(runID)
	if err != nil {
		w.logger.Error("failed to load screening run", zap.Error(err))
		return
	}
	if run.Status != models.RunQueued {
		return
	}

	if err := w.runs.MarkRunning(runID); err != nil {
		w.logger.Error("failed to mark run running", zap.Error(err))
		return
	}

	state := w.runner.Run(ctx, run.JobTitle, run.Company, run.JDFilePath, run.CVFilePathList())

	if state.Status == pipeline.StatusError {
		if err := w.runs.MarkFailed(runID, state.Error); err != nil {
			w.logger.Error("failed to mark run failed", zap.Error(err))
		}
		w.logger.Warn("screening run failed",
			zap.String("run_id", runID.String()),
			zap.String("error", state.Error))
		return
	}

	if err := w.runs.MarkCompleted(runID, state.JobID); err != nil {
		w.logger.Error("failed to mark run completed", zap.Error(err))
		return
	}

	w.logger.Info("screening run completed",
		zap.String("run_id", runID.String()),
		zap.String("job_id", state.JobID.String()),
		zap.Int("candidates", len(state.Candidates)),
		zap.Int("shortlisted", len(state.Shortlisted)),
		zap.Int("invites_sent", len(state.InvitesSent)))
}

func (w *worker) pollPending(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pending, err := w.runs.FindPending(10)
			if err != nil {
				w.logger.Warn("failed to fetch pending runs", zap.Error(err))
				continue
			}
			for _, run := range pending {
				w.Enqueue(run.ID)
			}
		}
	}
}
