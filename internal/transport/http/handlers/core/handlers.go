package corehandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
)

type Directory interface {
	GetEmployee(ctx context.Context, employeeID string) (core.Employee, error)
	EmployeeByUserID(ctx context.Context, userID string) (core.Employee, error)
	ListEmployees(ctx context.Context) ([]core.Employee, error)
	ListDepartments(ctx context.Context) ([]core.Department, error)
}

type Handler struct {
	Store Directory
	Perms middleware.PermissionStore
}

func NewHandler(store Directory, perms middleware.PermissionStore) *Handler {
	return &Handler{Store: store, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermCompanyRead, h.Perms))
		r.Get("/", h.handleListEmployees)
		r.Get("/{employeeID}", h.handleGetEmployee)
	})
	r.With(middleware.RequirePermission(auth.PermCompanyRead, h.Perms)).Get("/departments", h.handleListDepartments)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Unauthorized(w, middleware.GetRequestID(r.Context()))
		return
	}

	var employee *core.Employee
	emp, err := h.Store.EmployeeByUserID(r.Context(), user.UserID)
	switch {
	case err == nil:
		employee = &emp
	case !errors.Is(err, core.ErrEmployeeNotFound):
		slog.Warn("me employee lookup failed", "userId", user.UserID, "err", err)
	}

	api.Success(w, map[string]any{
		"user": map[string]string{
			"id":           user.UserID,
			"employeeId":   user.EmployeeID,
			"departmentId": user.DepartmentID,
			"role":         user.RoleName,
		},
		"employee": employee,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	if employees == nil {
		employees = []core.Employee{}
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		if errors.Is(err, core.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_list_failed", "failed to list departments", middleware.GetRequestID(r.Context()))
		return
	}
	if departments == nil {
		departments = []core.Department{}
	}
	api.Success(w, departments, middleware.GetRequestID(r.Context()))
}
