package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrportal/internal/domain/auth"
	"hrportal/internal/platform/config"
)

// Seed creates the bootstrap admin account when credentials are configured.
// It is safe to run on every start.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.TrimSpace(cfg.SeedAdminEmail)
	if email == "" || strings.TrimSpace(cfg.SeedAdminPassword) == "" {
		slog.Info("seed skipped, no admin credentials configured")
		return nil
	}
	return ensureUser(ctx, auth.NewStore(pool), email, cfg.SeedAdminPassword, auth.RoleAdmin)
}

type userCreator interface {
	CreateUser(ctx context.Context, email, passwordHash, role string) (string, error)
}

func ensureUser(ctx context.Context, store userCreator, email, password, role string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	id, err := store.CreateUser(ctx, email, hash, role)
	if errors.Is(err, auth.ErrUserExists) {
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("seeded user", "userId", id, "role", role)
	return nil
}
