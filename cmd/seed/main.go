package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"authservice/internal/auth"
	"authservice/internal/config"
	"authservice/internal/db"
	apperrors "authservice/internal/errors"
	"authservice/internal/logger"
	"authservice/internal/model"
	"authservice/internal/repository"
	"authservice/internal/service"
)

// seedUsers are the demo accounts created for local development.
var seedUsers = []service.CreateUserInput{
	{Email: "test1@google.com", FullName: "Test One", Password: "Abc123", Roles: []string{model.RoleAdmin}},
	{Email: "test2@google.com", FullName: "Test Two", Password: "Abc123", Roles: []string{model.RoleUser, model.RoleSuperUser}},
	{Email: "test3@google.com", FullName: "Test Three", Password: "Abc123"},
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, false)
	if err != nil {
		log.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	authService := service.NewAuthService(
		repository.NewUserRepository(gormDB),
		auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry),
		log,
		nil,
	)

	created, skipped, err := seed(context.Background(), authService, seedUsers)
	if err != nil {
		log.Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("seed completed", slog.Int("created", created), slog.Int("skipped", skipped))
}

// seed registers each user, skipping emails that already exist.
func seed(ctx context.Context, svc service.AuthService, users []service.CreateUserInput) (created int, skipped int, err error) {
	for _, u := range users {
		if _, err := svc.Create(ctx, u); err != nil {
			if errors.Is(err, apperrors.ErrDuplicateEntry) {
				skipped++
				continue
			}
			return created, skipped, err
		}
		created++
	}
	return created, skipped, nil
}
