package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

type discard struct{}

func (discard) PublishAll(context.Context, []domain.Event) {}

func newAuthService(users service.UserStore) *service.AuthService {
	return service.NewAuthService(service.AuthDependencies{
		Users:  users,
		Hasher: auth.NewPasswordHasher(bcrypt.MinCost),
		Events: discard{},
	})
}

func TestParseInput(t *testing.T) {
	t.Setenv("SEED_ADMIN_EMAIL", "env@hospital.edu")
	t.Setenv("SEED_ADMIN_PASSWORD", "from-environment")

	input, err := parseInput(nil)
	require.NoError(t, err)
	assert.Equal(t, "Administrator", input.Name)
	assert.Equal(t, "env@hospital.edu", input.Email)
	assert.Equal(t, domain.RoleAdmin, input.Role)

	input, err = parseInput([]string{"--email", "flag@hospital.edu", "--name", "Chief"})
	require.NoError(t, err)
	assert.Equal(t, "flag@hospital.edu", input.Email)
	assert.Equal(t, "Chief", input.Name)
	assert.Equal(t, "from-environment", input.Password)
}

func TestSeedIsIdempotent(t *testing.T) {
	users := repository.NewInMemoryUserRepository()
	svc := newAuthService(users)
	input := service.RegisterInput{
		Name:     "Administrator",
		Email:    "admin@hospital.edu",
		Password: "correct-horse",
		Role:     domain.RoleAdmin,
	}

	ctx := context.Background()
	assert.Equal(t, 0, seed(ctx, svc, input, zap.NewNop()))
	assert.Equal(t, 0, seed(ctx, svc, input, zap.NewNop()))

	email, err := domain.ParseEmail("admin@hospital.edu")
	require.NoError(t, err)
	admin, err := users.FindByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
}

func TestSeedRejectsWeakPassword(t *testing.T) {
	svc := newAuthService(repository.NewInMemoryUserRepository())
	input := service.RegisterInput{Name: "Administrator", Email: "admin@hospital.edu", Password: "short", Role: domain.RoleAdmin}

	assert.Equal(t, 1, seed(context.Background(), svc, input, zap.NewNop()))
}
