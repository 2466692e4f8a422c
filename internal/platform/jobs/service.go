package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

const (
	JobPerformanceBroadcast = "performance_broadcast"

	queueSize = 128
)

// RunLog persists job runs. A nil RunLog keeps runs in memory only.
type RunLog interface {
	StartRun(ctx context.Context, jobType string) (string, error)
	FinishRun(ctx context.Context, runID, status string, details []byte) error
}

type Service struct {
	runs     RunLog
	queue    chan job
	observer func(jobType string, err error)
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

type Option func(*Service)

// WithObserver is called after every run with its outcome.
func WithObserver(fn func(jobType string, err error)) Option {
	return func(s *Service) { s.observer = fn }
}

func New(runs RunLog, opts ...Option) *Service {
	s := &Service{
		runs:  runs,
		queue: make(chan job, queueSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
}

// Enqueue hands a job to the worker. It reports false when the queue is full.
func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if s.runs != nil {
		id, err := s.runs.StartRun(ctx, j.Type)
		if err != nil {
			slog.Warn("job run insert failed", "err", err)
		}
		runID = id
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	if s.observer != nil {
		s.observer(j.Type, err)
	}

	if runID != "" {
		detailsJSON, marshalErr := json.Marshal(details)
		if marshalErr != nil {
			slog.Warn("job details marshal failed", "err", marshalErr)
			detailsJSON = []byte("{}")
		}
		if updErr := s.runs.FinishRun(ctx, runID, status, detailsJSON); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

// Every enqueues run on each tick until ctx is done. A non-positive interval
// disables the schedule.
func (s *Service) Every(ctx context.Context, interval time.Duration, jobType string, run func(context.Context) (any, error)) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Enqueue(jobType, run)
			}
		}
	}()
}
