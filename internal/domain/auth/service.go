package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

type Service struct {
	store  StoreAPI
	secret string
	ttl    time.Duration
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	return &Service{store: store, secret: secret, ttl: ttl}
}

func (s *Service) TokenTTL() time.Duration {
	return s.ttl
}

// Login checks credentials and issues a signed token for the user.
func (s *Service) Login(ctx context.Context, email, password string) (string, UserContext, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", UserContext{}, ErrInvalidCredentials
	}
	user, err := s.store.FindActiveUserByEmail(ctx, email)
	if err != nil {
		return "", UserContext{}, err
	}
	if err := CheckPassword(user.Password, password); err != nil {
		return "", UserContext{}, ErrInvalidCredentials
	}

	claims := Claims{
		UserID:       user.ID,
		EmployeeID:   user.EmployeeID,
		DepartmentID: user.DepartmentID,
		RoleName:     user.RoleName,
	}
	token, err := GenerateToken(s.secret, claims, s.ttl)
	if err != nil {
		return "", UserContext{}, err
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("update last login failed", "userId", user.ID, "err", err)
	}
	return token, claims.User(), nil
}
