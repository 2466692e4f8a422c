package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hrportal/internal/domain/core"
	"hrportal/internal/domain/notifications"
	"hrportal/internal/domain/performance"
)

// People resolves the employees and departments a task touches.
type People interface {
	GetEmployee(ctx context.Context, employeeID string) (core.Employee, error)
	GetDepartment(ctx context.Context, departmentID string) (core.Department, error)
	DepartmentOfManager(ctx context.Context, managerEmployeeID string) (core.Department, error)
}

type InboxWriter interface {
	Create(ctx context.Context, userID, kind, title, body string) error
}

// PerformancePublisher pushes a fresh department summary to live clients.
type PerformancePublisher interface {
	PublishDepartmentPerformance(ctx context.Context, departmentID string) (int, error)
}

type Service struct {
	store       StoreAPI
	people      People
	inbox       InboxWriter
	notify      *notifications.Dispatcher
	performance PerformancePublisher
	now         func() time.Time
}

func NewService(store StoreAPI, people People, inbox InboxWriter, notify *notifications.Dispatcher, perf PerformancePublisher) *Service {
	return &Service{
		store:       store,
		people:      people,
		inbox:       inbox,
		notify:      notify,
		performance: perf,
		now:         time.Now,
	}
}

func (s *Service) AssignTask(ctx context.Context, manager Actor, payload NewTask) (Task, error) {
	payload.Title = strings.TrimSpace(payload.Title)
	payload.Description = strings.TrimSpace(payload.Description)
	if payload.Title == "" || len(payload.Title) > maxTitleLength {
		return Task{}, fmt.Errorf("%w: title is required and must be at most %d characters", ErrInvalidTask, maxTitleLength)
	}
	if payload.AssigneeID == "" {
		return Task{}, fmt.Errorf("%w: assignee is required", ErrInvalidTask)
	}
	if payload.Priority == "" {
		payload.Priority = PriorityMedium
	}
	if !validPriority(payload.Priority) {
		return Task{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidTask, payload.Priority)
	}

	dep, err := s.people.DepartmentOfManager(ctx, manager.EmployeeID)
	if err != nil {
		if errors.Is(err, core.ErrDepartmentNotFound) {
			return Task{}, fmt.Errorf("%w: manager has no department", ErrForbidden)
		}
		return Task{}, err
	}
	assignee, err := s.people.GetEmployee(ctx, payload.AssigneeID)
	if err != nil {
		if errors.Is(err, core.ErrEmployeeNotFound) {
			return Task{}, fmt.Errorf("%w: %w", ErrInvalidTask, err)
		}
		return Task{}, err
	}
	if assignee.DepartmentID != dep.ID {
		return Task{}, fmt.Errorf("%w: employee %s is not in department %s", ErrForbidden, assignee.ID, dep.ID)
	}

	task, err := s.store.CreateTask(ctx, manager.EmployeeID, payload)
	if err != nil {
		return Task{}, err
	}

	message := fmt.Sprintf("You have been assigned a new task: %s", task.Title)
	if err := s.inbox.Create(ctx, assignee.UserID, notifications.InboxTaskAssigned, "New task assigned", message); err != nil {
		slog.Warn("task inbox entry failed", "taskId", task.ID, "err", err)
	}
	s.notify.NotifyTaskAssigned(ctx, notifications.ToUser(assignee.UserID), notifications.TaskAssigned{
		TaskID:     task.ID,
		Title:      task.Title,
		Message:    message,
		Priority:   task.Priority,
		DueDate:    task.DueDate,
		AssignedBy: manager.EmployeeID,
	})
	s.notify.NotifyTaskUpdate(ctx, notifications.ToDepartment(dep.ID), notifications.TaskUpdate{
		TaskID:     task.ID,
		Title:      task.Title,
		Status:     task.Status,
		EmployeeID: assignee.ID,
	})
	s.publishPerformance(ctx, dep.ID)
	return task, nil
}

// UpdateStatus moves a task. The assignee, the department manager and admins
// may do so.
func (s *Service) UpdateStatus(ctx context.Context, actor Actor, taskID, status string) (Task, error) {
	if !performance.ValidTaskStatus(status) {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	if err := s.authorize(ctx, actor, task); err != nil {
		return Task{}, err
	}

	var completedAt *time.Time
	if status == StatusCompleted {
		if task.CompletedDate != nil {
			completedAt = task.CompletedDate
		} else {
			now := s.now().UTC()
			completedAt = &now
		}
	}
	if err := s.store.UpdateStatus(ctx, task.ID, status, completedAt); err != nil {
		return Task{}, err
	}
	previous := task.Status
	task.Status = status
	task.CompletedDate = completedAt

	if previous != status && task.AssignedBy != "" && task.AssignedBy != actor.EmployeeID {
		s.notifyAssigner(ctx, task)
	}

	if task.DepartmentID != "" {
		s.notify.NotifyTaskUpdate(ctx, notifications.ToDepartment(task.DepartmentID), notifications.TaskUpdate{
			TaskID:     task.ID,
			Title:      task.Title,
			Status:     task.Status,
			EmployeeID: task.AssignedTo,
		})
		s.publishPerformance(ctx, task.DepartmentID)
	}
	return task, nil
}

func (s *Service) publishPerformance(ctx context.Context, departmentID string) {
	if s.performance == nil {
		return
	}
	if _, err := s.performance.PublishDepartmentPerformance(ctx, departmentID); err != nil {
		slog.Warn("publish department performance failed", "departmentId", departmentID, "err", err)
	}
}

// notifyAssigner leaves an inbox entry for whoever assigned the task.
func (s *Service) notifyAssigner(ctx context.Context, task Task) {
	assigner, err := s.people.GetEmployee(ctx, task.AssignedBy)
	if err != nil || assigner.UserID == "" {
		return
	}
	body := fmt.Sprintf("%q moved to %s", task.Title, task.Status)
	if err := s.inbox.Create(ctx, assigner.UserID, notifications.InboxTaskStatusMoved, "Task status changed", body); err != nil {
		slog.Warn("task status inbox entry failed", "taskId", task.ID, "err", err)
	}
}

// authorize lets a manager move tasks of the department they belong to, the
// same scope AssignTask grants.
func (s *Service) authorize(ctx context.Context, actor Actor, task Task) error {
	if actor.Role == RoleAdmin || actor.EmployeeID == task.AssignedTo {
		return nil
	}
	if task.DepartmentID == "" || actor.EmployeeID == "" {
		return ErrForbidden
	}
	dep, err := s.people.DepartmentOfManager(ctx, actor.EmployeeID)
	if err != nil {
		if errors.Is(err, core.ErrDepartmentNotFound) {
			return ErrForbidden
		}
		return err
	}
	self := core.Employee{ID: actor.EmployeeID, DepartmentID: dep.ID, Role: actor.Role}
	if dep.ID != task.DepartmentID || !dep.ManagedBy(self) {
		return ErrForbidden
	}
	return nil
}

func (s *Service) ListForEmployee(ctx context.Context, employeeID string) ([]Task, error) {
	return s.store.ListForEmployee(ctx, employeeID)
}

// ListForDepartment lists tasks of the manager's department.
func (s *Service) ListForDepartment(ctx context.Context, managerEmployeeID string) ([]Task, error) {
	dep, err := s.people.DepartmentOfManager(ctx, managerEmployeeID)
	if err != nil {
		if errors.Is(err, core.ErrDepartmentNotFound) {
			return nil, fmt.Errorf("%w: manager has no department", ErrForbidden)
		}
		return nil, err
	}
	return s.store.ListForDepartment(ctx, dep.ID)
}
