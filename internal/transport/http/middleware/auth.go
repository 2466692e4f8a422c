package middleware

import (
	"net/http"
	"strings"

	"hrportal/internal/domain/auth"
)

const TokenCookieName = "access_token"

// Auth attaches the caller to the request context when a valid token is
// presented. It never rejects; RequireAuth and friends do that.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.User())))
		})
	}
}

// tokenFromRequest reads the bearer header, then the session cookie. The
// query parameter is honoured only on websocket handshakes, where browsers
// cannot set headers.
func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if isWebsocketHandshake(r) {
		return r.URL.Query().Get("token")
	}
	return ""
}

func isWebsocketHandshake(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
