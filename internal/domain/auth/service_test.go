package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	user      AuthUser
	lastLogin string
}

func (f *fakeStore) FindActiveUserByEmail(ctx context.Context, email string) (AuthUser, error) {
	if email != f.user.Email {
		return AuthUser{}, ErrInvalidCredentials
	}
	return f.user, nil
}

func (f *fakeStore) UpdateLastLogin(ctx context.Context, userID string) error {
	f.lastLogin = userID
	return nil
}

func TestLogin(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	store := &fakeStore{user: AuthUser{ID: "u1", Email: "m@example.com", RoleName: RoleManager, Password: hash, EmployeeID: "e1", DepartmentID: "d1"}}
	svc := NewService(store, "secret", time.Hour)

	token, user, err := svc.Login(context.Background(), " m@example.com ", "correct horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	want := UserContext{UserID: "u1", EmployeeID: "e1", DepartmentID: "d1", RoleName: RoleManager}
	if user != want {
		t.Fatalf("unexpected user: %+v", user)
	}
	claims, err := ParseToken("secret", token)
	if err != nil || claims.User() != want {
		t.Fatalf("token does not carry the user: %+v %v", claims, err)
	}
	if store.lastLogin != "u1" {
		t.Fatal("expected last login to be recorded")
	}
}

func TestLoginRejects(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	svc := NewService(&fakeStore{user: AuthUser{ID: "u1", Email: "m@example.com", Password: hash}}, "secret", time.Hour)

	tests := []struct{ email, password string }{
		{"m@example.com", "wrong"},
		{"nobody@example.com", "correct horse"},
		{"", "x"},
		{"m@example.com", ""},
	}
	for _, tt := range tests {
		if _, _, err := svc.Login(context.Background(), tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%q/%q: expected ErrInvalidCredentials, got %v", tt.email, tt.password, err)
		}
	}
}
