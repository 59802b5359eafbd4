// Command seed-admin registers the initial ADMIN account. Running it again
// with the same email is a no-op.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/app"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	input, err := parseInput(args)
	if err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		log.Printf("invalid arguments: %v", err)
		return 2
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Postgres.DSN == "" {
		logger.Error("POSTGRES_DSN is required to seed an admin")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build application", zap.Error(err))
		return 1
	}
	defer application.Close(ctx)

	return seed(ctx, application.AuthService(), input, logger)
}

// parseInput reads SEED_ADMIN_* from the environment; flags override them.
func parseInput(args []string) (service.RegisterInput, error) {
	input := service.RegisterInput{Role: domain.RoleAdmin}

	flagSet := pflag.NewFlagSet("seed-admin", pflag.ContinueOnError)
	flagSet.StringVar(&input.Name, "name", getEnv("SEED_ADMIN_NAME", "Administrator"), "display name")
	flagSet.StringVar(&input.Email, "email", os.Getenv("SEED_ADMIN_EMAIL"), "login email")
	flagSet.StringVar(&input.Password, "password", os.Getenv("SEED_ADMIN_PASSWORD"), "initial password")
	if err := flagSet.Parse(args); err != nil {
		return service.RegisterInput{}, err
	}
	return input, nil
}

func seed(ctx context.Context, users *service.AuthService, input service.RegisterInput, logger *zap.Logger) int {
	user, err := users.RegisterUser(ctx, input)
	switch {
	case err == nil:
		logger.Info("admin created", zap.String("user_id", user.ID), zap.String("email", user.Email.String()))
		return 0
	case apperrors.HasCode(err, apperrors.CodeConflict):
		logger.Info("admin already exists", zap.String("email", input.Email))
		return 0
	default:
		logger.Error("failed to create admin", zap.Error(err))
		return 1
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
