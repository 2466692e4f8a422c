package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hrportal/internal/domain/dashboard"
)

// LiveDepartments lists departments that currently have live clients.
type LiveDepartments interface {
	Departments() []string
}

type PerformancePublisher interface {
	PublishDepartmentPerformance(ctx context.Context, departmentID string) (int, error)
}

type BroadcastResult struct {
	Departments int `json:"departments"`
	Deliveries  int `json:"deliveries"`
	Skipped     int `json:"skipped"`
}

// BroadcastPerformance pushes a fresh summary to every department someone is
// watching. Unknown departments are skipped; other failures are collected.
func BroadcastPerformance(ctx context.Context, live LiveDepartments, pub PerformancePublisher) (BroadcastResult, error) {
	var (
		result BroadcastResult
		errs   []error
	)
	for _, departmentID := range live.Departments() {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		n, err := pub.PublishDepartmentPerformance(ctx, departmentID)
		switch {
		case errors.Is(err, dashboard.ErrNotFound):
			slog.Warn("skipping broadcast for unknown department", "departmentId", departmentID)
			result.Skipped++
		case err != nil:
			errs = append(errs, err)
		default:
			result.Departments++
			result.Deliveries += n
		}
	}
	return result, errors.Join(errs...)
}

// SchedulePerformanceBroadcast runs BroadcastPerformance through the queue on
// every interval tick.
func (s *Service) SchedulePerformanceBroadcast(ctx context.Context, interval time.Duration, live LiveDepartments, pub PerformancePublisher) {
	s.Every(ctx, interval, JobPerformanceBroadcast, func(ctx context.Context) (any, error) {
		return BroadcastPerformance(ctx, live, pub)
	})
}
