package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"helpdesk-webhooks/config"
	pgStorage "helpdesk-webhooks/internal/adapter/storage/postgres"
	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/internal/service"
	"helpdesk-webhooks/migrations"
	"helpdesk-webhooks/pkg/apperror"
	"helpdesk-webhooks/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ./config.yaml or ./config/config.yaml)")
	adminEmail := flag.String("admin-email", "", "Create an admin user with this email if it does not exist")
	adminName := flag.String("admin-name", "Administrator", "Name of the bootstrap admin user")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New("helpdesk-migrate", cfg.Log.Level, cfg.Log.Pretty)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	applied, err := pgStorage.NewMigrator(pool, migrations.FS, log).Up(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	log.Info().Int("applied", len(applied)).Msg("Schema up to date")

	if *adminEmail == "" {
		return
	}

	// The password comes from the environment so it stays out of shell history.
	password := os.Getenv("HDK_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal().Msg("HDK_ADMIN_PASSWORD must be set with -admin-email")
	}

	users := service.NewUserService(pgStorage.NewUserRepo(pool), service.NewBcryptHashService())
	user, err := users.Create(ctx, ports.CreateUserRequest{
		Name:     *adminName,
		Email:    *adminEmail,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr) && appErr.Code == apperror.ErrEmailExists().Code:
		log.Info().Str("email", *adminEmail).Msg("Admin user already exists")
	case err != nil:
		log.Fatal().Err(err).Msg("Failed to create admin user")
	default:
		log.Info().Str("user_id", user.ID.String()).Msg("Admin user created")
	}
}
