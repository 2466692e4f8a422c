package developmenthandler

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
	"hrportal/internal/domain/development"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Service interface {
	UpdateSkillProgress(ctx context.Context, employeeID, skillID string, proficiency float64) (development.EmployeeSkill, error)
	UpdateCourseProgress(ctx context.Context, employeeID, courseID string, progress float64) (development.Enrollment, error)
	AssignDevelopmentPlan(ctx context.Context, managerEmployeeID string, payload development.NewPlan) (development.Plan, error)
	TeamDevelopment(ctx context.Context, managerEmployeeID string) ([]development.MemberDevelopment, error)
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
	r.With(middleware.RequirePermission(auth.PermDevelopmentWrite, h.Perms)).Post("/skills/{skillID}/progress", h.handleSkillProgress)
	r.With(middleware.RequirePermission(auth.PermDevelopmentWrite, h.Perms)).Post("/courses/{courseID}/progress", h.handleCourseProgress)
	r.With(middleware.RequirePermission(auth.PermDevelopmentAssign, h.Perms)).Post("/manager/development-plans", h.handleAssignPlan)
	r.With(middleware.RequirePermission(auth.PermTeamRead, h.Perms)).Get("/manager/team-development", h.handleTeamDevelopment)
}

// selfEmployee returns the caller's employee id, failing the request when the
// account has none.
func selfEmployee(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Unauthorized(w, middleware.GetRequestID(r.Context()))
		return "", false
	}
	if user.EmployeeID == "" {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record for this account", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return user.EmployeeID, true
}

type progressRequest struct {
	Proficiency *float64 `json:"proficiency"`
	Progress    *float64 `json:"progress"`
}

func decodeProgress(w http.ResponseWriter, r *http.Request, field string) (float64, bool) {
	var payload progressRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return 0, false
	}
	value := payload.Progress
	if field == "proficiency" {
		value = payload.Proficiency
	}
	v := shared.NewValidator()
	v.Percent(field, value)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return 0, false
	}
	return *value, true
}

func (h *Handler) handleSkillProgress(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := selfEmployee(w, r)
	if !ok {
		return
	}
	proficiency, ok := decodeProgress(w, r, "proficiency")
	if !ok {
		return
	}
	skill, err := h.Service.UpdateSkillProgress(r.Context(), employeeID, chi.URLParam(r, "skillID"), proficiency)
	if err != nil {
		failDevelopment(w, r, err, "skill_update_failed", "failed to update skill")
		return
	}
	h.record(r, audit.ActionSkillProgress, "skill", skill.SkillID, skill)
	api.Success(w, skill, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCourseProgress(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := selfEmployee(w, r)
	if !ok {
		return
	}
	progress, ok := decodeProgress(w, r, "progress")
	if !ok {
		return
	}
	enrollment, err := h.Service.UpdateCourseProgress(r.Context(), employeeID, chi.URLParam(r, "courseID"), progress)
	if err != nil {
		failDevelopment(w, r, err, "course_update_failed", "failed to update course")
		return
	}
	h.record(r, audit.ActionCourseProgress, "course", enrollment.CourseID, enrollment)
	api.Success(w, enrollment, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAssignPlan(w http.ResponseWriter, r *http.Request) {
	managerID, ok := selfEmployee(w, r)
	if !ok {
		return
	}

	var payload struct {
		EmployeeID  string   `json:"employeeId"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Goals       []string `json:"goals"`
		TargetDate  string   `json:"targetDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	v.Required("title", payload.Title, "is required")
	plan := development.NewPlan{
		EmployeeID:  payload.EmployeeID,
		Title:       payload.Title,
		Description: payload.Description,
		Goals:       payload.Goals,
	}
	if payload.TargetDate != "" {
		if target, ok := v.Date("targetDate", payload.TargetDate); ok {
			plan.TargetDate = &target
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	created, err := h.Service.AssignDevelopmentPlan(r.Context(), managerID, plan)
	if err != nil {
		failDevelopment(w, r, err, "plan_create_failed", "failed to assign development plan")
		return
	}
	h.record(r, audit.ActionPlanAssign, "development_plan", created.ID, created)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTeamDevelopment(w http.ResponseWriter, r *http.Request) {
	managerID, ok := selfEmployee(w, r)
	if !ok {
		return
	}
	team, err := h.Service.TeamDevelopment(r.Context(), managerID)
	if err != nil {
		failDevelopment(w, r, err, "team_development_failed", "failed to load team development")
		return
	}
	if team == nil {
		team = []development.MemberDevelopment{}
	}
	api.Success(w, team, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, action, entityType, entityID string, after any) {
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	err := h.Audit.Record(r.Context(), audit.Entry{
		ActorID:    user.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  middleware.GetRequestID(r.Context()),
		IP:         middleware.ClientIP(r),
		After:      after,
	})
	if err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func failDevelopment(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, development.ErrInvalidInput):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
	case errors.Is(err, development.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, development.ErrSkillNotFound), errors.Is(err, development.ErrCourseNotFound), errors.Is(err, core.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	default:
		slog.Warn("development request failed", "code", code, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
