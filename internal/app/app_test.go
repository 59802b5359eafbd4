package app

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	_, priv, pub, err := auth.GenerateKeyPair()
	require.NoError(t, err)
	return &config.Config{
		App: config.AppConfig{Name: "hospital-helpdesk", Env: "test", Version: "test"},
		Auth: config.AuthConfig{
			PrivateKey: priv,
			PublicKey:  pub,
			Issuer:     "hospital.desk.api",
			Audience:   "hospital.desk.clients",
			TokenTTL:   2 * time.Hour,
			BcryptCost: 4,
		},
	}
}

func TestNewWithoutBackingServices(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer a.Close(ctx)

	user, err := a.AuthService().RegisterUser(ctx, service.RegisterInput{
		Name: "Admin", Email: "admin@hospital.edu", Password: "correct-horse", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	resp, err := a.HTTP().Test(httptest.NewRequest(fiber.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestNewRequiresKeys(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.PrivateKey = ""

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
