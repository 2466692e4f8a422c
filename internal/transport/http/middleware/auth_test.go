package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrportal/internal/domain/auth"
)

func issue(t *testing.T, secret string) string {
	t.Helper()
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", EmployeeID: "e1", DepartmentID: "d1", RoleName: auth.RoleManager}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	return token
}

func TestAuthMiddlewareTokenSources(t *testing.T) {
	secret := "test-secret"
	token := issue(t, secret)

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		want    bool
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, true},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token}) }, true},
		{"query on websocket handshake", func(r *http.Request) {
			r.URL.RawQuery = "token=" + token
			r.Header.Set("Upgrade", "websocket")
		}, true},
		{"query on plain request", func(r *http.Request) { r.URL.RawQuery = "token=" + token }, false},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic "+token) }, false},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, false},
		{"none", func(r *http.Request) {}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got auth.UserContext
			var ok bool
			handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, ok = GetUser(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if ok != tt.want {
				t.Fatalf("expected user=%v, got %v", tt.want, ok)
			}
			if ok && (got.UserID != "u1" || got.EmployeeID != "e1" || got.DepartmentID != "d1" || got.RoleName != auth.RoleManager) {
				t.Fatalf("unexpected user: %+v", got)
			}
		})
	}
}
