package tasks

import (
	"context"
	"time"

	"hrportal/internal/domain/performance"
)

type StoreAPI interface {
	CreateTask(ctx context.Context, assignedBy string, payload NewTask) (Task, error)
	GetTask(ctx context.Context, taskID string) (Task, error)
	UpdateStatus(ctx context.Context, taskID, status string, completedAt *time.Time) error
	ListForEmployee(ctx context.Context, employeeID string) ([]Task, error)
	ListForDepartment(ctx context.Context, departmentID string) ([]Task, error)
	TasksForEmployee(ctx context.Context, employeeID string) ([]performance.TaskRecord, error)
}
