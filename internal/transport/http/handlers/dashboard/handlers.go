package dashboardhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/dashboard"
	"hrportal/internal/domain/notifications"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
)

type Composer interface {
	BuildManagerDashboard(ctx context.Context, managerEmployeeID string) (dashboard.ManagerDashboard, error)
	BuildExecutiveDashboard(ctx context.Context) (dashboard.ExecutiveDashboard, error)
}

type OverviewSource interface {
	Overview(ctx context.Context) (core.Overview, error)
}

type StatsSource interface {
	Stats() notifications.RegistryStats
}

type Handler struct {
	Composer  Composer
	Directory OverviewSource
	Live      StatsSource
	Perms     middleware.PermissionStore
}

func NewHandler(composer Composer, directory OverviewSource, live StatsSource, perms middleware.PermissionStore) *Handler {
	return &Handler{Composer: composer, Directory: directory, Live: live, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleManager))
		r.Use(middleware.RequirePermission(auth.PermTeamRead, h.Perms))
		r.Get("/manager/dashboard", h.handleManagerDashboard)
		r.Get("/manager/team-performance", h.handleTeamPerformance)
		r.Get("/manager/reports/performance.pdf", h.handlePerformanceReport)
	})
	r.With(middleware.RequirePermission(auth.PermCompanyRead, h.Perms)).Get("/executive/dashboard", h.handleExecutiveDashboard)
	r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms)).Get("/admin/overview", h.handleAdminOverview)
}

func (h *Handler) managerDashboard(w http.ResponseWriter, r *http.Request) (dashboard.ManagerDashboard, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Unauthorized(w, middleware.GetRequestID(r.Context()))
		return dashboard.ManagerDashboard{}, false
	}
	if user.EmployeeID == "" {
		api.Fail(w, http.StatusNotFound, "not_found", "no employee record for this account", middleware.GetRequestID(r.Context()))
		return dashboard.ManagerDashboard{}, false
	}

	d, err := h.Composer.BuildManagerDashboard(r.Context(), user.EmployeeID)
	if err != nil {
		failDashboard(w, r, err)
		return dashboard.ManagerDashboard{}, false
	}
	return d, true
}

func (h *Handler) handleManagerDashboard(w http.ResponseWriter, r *http.Request) {
	d, ok := h.managerDashboard(w, r)
	if !ok {
		return
	}
	api.Success(w, d, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTeamPerformance(w http.ResponseWriter, r *http.Request) {
	d, ok := h.managerDashboard(w, r)
	if !ok {
		return
	}
	api.Success(w, map[string]any{
		"departmentId":    d.Department.ID,
		"teamMembers":     d.Samples,
		"departmentStats": d.Summary,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePerformanceReport(w http.ResponseWriter, r *http.Request) {
	d, ok := h.managerDashboard(w, r)
	if !ok {
		return
	}
	pdf, err := dashboard.RenderTeamReport(d)
	if err != nil {
		slog.Warn("performance report render failed", "departmentId", d.Department.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render report", middleware.GetRequestID(r.Context()))
		return
	}

	api.Attachment(w, "application/pdf", "team-performance-"+d.GeneratedAt.Format("2006-01-02")+".pdf", pdf)
}

func (h *Handler) handleExecutiveDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Composer.BuildExecutiveDashboard(r.Context())
	if err != nil {
		failDashboard(w, r, err)
		return
	}
	api.Success(w, d, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Directory.Overview(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "overview_failed", "failed to load overview", middleware.GetRequestID(r.Context()))
		return
	}
	out := map[string]any{"overview": overview}
	if h.Live != nil {
		out["live"] = h.Live.Stats()
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func failDashboard(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, dashboard.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	default:
		slog.Warn("dashboard build failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to build dashboard", requestID)
	}
}
