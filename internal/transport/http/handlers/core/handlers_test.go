package corehandler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/transport/http/middleware"
)

type fakeDirectory struct {
	employees []core.Employee
}

func (f fakeDirectory) GetEmployee(ctx context.Context, employeeID string) (core.Employee, error) {
	for _, e := range f.employees {
		if e.ID == employeeID {
			return e, nil
		}
	}
	return core.Employee{}, fmt.Errorf("%w: %s", core.ErrEmployeeNotFound, employeeID)
}

func (f fakeDirectory) EmployeeByUserID(ctx context.Context, userID string) (core.Employee, error) {
	for _, e := range f.employees {
		if e.UserID == userID {
			return e, nil
		}
	}
	return core.Employee{}, core.ErrEmployeeNotFound
}

func (f fakeDirectory) ListEmployees(ctx context.Context) ([]core.Employee, error) {
	return f.employees, nil
}

func (f fakeDirectory) ListDepartments(ctx context.Context) ([]core.Department, error) {
	return nil, nil
}

func newRouter(user auth.UserContext) http.Handler {
	dir := fakeDirectory{employees: []core.Employee{
		{ID: "e1", UserID: "u1", FirstName: "Ada", LastName: "Lovelace", DepartmentID: "eng"},
	}}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	NewHandler(dir, auth.StaticPermissions{}).RegisterRoutes(r)
	return r
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMe(t *testing.T) {
	rec := get(newRouter(auth.UserContext{UserID: "u1", EmployeeID: "e1", RoleName: auth.RoleEmployee}), "/me")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"firstName":"Ada"`) {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}

	rec = get(newRouter(auth.UserContext{UserID: "admin", RoleName: auth.RoleAdmin}), "/me")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"employee":null`) {
		t.Fatalf("expected a null employee for accounts without one, got %s", rec.Body.String())
	}
}

func TestDirectoryRequiresCompanyRead(t *testing.T) {
	tests := []struct {
		name string
		role string
		path string
		want int
	}{
		{name: "executive lists", role: auth.RoleExecutive, path: "/employees", want: http.StatusOK},
		{name: "manager denied", role: auth.RoleManager, path: "/employees", want: http.StatusForbidden},
		{name: "admin gets one", role: auth.RoleAdmin, path: "/employees/e1", want: http.StatusOK},
		{name: "unknown employee", role: auth.RoleAdmin, path: "/employees/e9", want: http.StatusNotFound},
		{name: "departments empty", role: auth.RoleAdmin, path: "/departments", want: http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(newRouter(auth.UserContext{UserID: "u", RoleName: tc.role}), tc.path)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
