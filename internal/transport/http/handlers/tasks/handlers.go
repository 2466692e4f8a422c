package taskshandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/tasks"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Service interface {
	AssignTask(ctx context.Context, manager tasks.Actor, payload tasks.NewTask) (tasks.Task, error)
	UpdateStatus(ctx context.Context, actor tasks.Actor, taskID, status string) (tasks.Task, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]tasks.Task, error)
	ListForDepartment(ctx context.Context, managerEmployeeID string) ([]tasks.Task, error)
}

type AuditLog interface {
	Record(ctx context.Context, e audit.Entry) error
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   AuditLog
}

func NewHandler(service Service, perms middleware.PermissionStore, auditLog AuditLog) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditLog}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermTasksAssign, h.Perms)).Post("/manager/tasks", h.handleAssign)
	r.With(middleware.RequirePermission(auth.PermTeamRead, h.Perms)).Get("/manager/tasks", h.handleListDepartment)
	r.With(middleware.RequirePermission(auth.PermTasksRead, h.Perms)).Get("/tasks", h.handleListOwn)
	r.With(middleware.RequirePermission(auth.PermTasksUpdate, h.Perms)).Post("/tasks/{taskID}/status", h.handleUpdateStatus)
}

func actorOf(user auth.UserContext) tasks.Actor {
	return tasks.Actor{UserID: user.UserID, EmployeeID: user.EmployeeID, Role: user.RoleName}
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Unauthorized(w, middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		AssignedTo  string `json:"assignedTo"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		DueDate     string `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("assignedTo", payload.AssignedTo, "is required")
	v.Required("title", payload.Title, "is required")
	v.Enum("priority", payload.Priority, []string{tasks.PriorityLow, tasks.PriorityMedium, tasks.PriorityHigh}, "must be low, medium or high")
	newTask := tasks.NewTask{
		AssigneeID:  payload.AssignedTo,
		Title:       payload.Title,
		Description: payload.Description,
		Priority:    payload.Priority,
	}
	if payload.DueDate != "" {
		if due, ok := v.Date("dueDate", payload.DueDate); ok {
			newTask.DueDate = &due
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	task, err := h.Service.AssignTask(r.Context(), actorOf(user), newTask)
	if err != nil {
		failTask(w, r, err, "task_create_failed", "failed to assign task")
		return
	}
	h.record(r, user, audit.ActionTaskAssign, task)
	api.Created(w, task, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDepartment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Unauthorized(w, middleware.GetRequestID(r.Context()))
		return
	}
	items, err := h.Service.ListForDepartment(r.Context(), user.EmployeeID)
	if err != nil {
		failTask(w, r, err, "task_list_failed", "failed to list tasks")
		return
	}
	api.Success(w, nonNil(items), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListOwn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Unauthorized(w, middleware.GetRequestID(r.Context()))
		return
	}
	if user.EmployeeID == "" {
		api.Success(w, []tasks.Task{}, middleware.GetRequestID(r.Context()))
		return
	}
	items, err := h.Service.ListForEmployee(r.Context(), user.EmployeeID)
	if err != nil {
		failTask(w, r, err, "task_list_failed", "failed to list tasks")
		return
	}
	api.Success(w, nonNil(items), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Unauthorized(w, middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("status", payload.Status, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	task, err := h.Service.UpdateStatus(r.Context(), actorOf(user), chi.URLParam(r, "taskID"), payload.Status)
	if err != nil {
		failTask(w, r, err, "task_update_failed", "failed to update task")
		return
	}
	h.record(r, user, audit.ActionTaskStatus, task)
	api.Success(w, task, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, user auth.UserContext, action string, task tasks.Task) {
	if h.Audit == nil {
		return
	}
	err := h.Audit.Record(r.Context(), audit.Entry{
		ActorID:    user.UserID,
		Action:     action,
		EntityType: "task",
		EntityID:   task.ID,
		RequestID:  middleware.GetRequestID(r.Context()),
		IP:         middleware.ClientIP(r),
		After:      map[string]string{"status": task.Status, "assignedTo": task.AssignedTo},
	})
	if err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func failTask(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, tasks.ErrInvalidTask), errors.Is(err, tasks.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
	case errors.Is(err, tasks.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, tasks.ErrTaskNotFound), errors.Is(err, core.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	default:
		slog.Warn("task request failed", "code", code, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}

func nonNil(items []tasks.Task) []tasks.Task {
	if items == nil {
		return []tasks.Task{}
	}
	return items
}
