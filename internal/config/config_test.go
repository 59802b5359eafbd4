package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("AUTH_TOKEN_TTL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "hospital.desk.api", cfg.Auth.Issuer)
	assert.Equal(t, "hospital.desk.clients", cfg.Auth.Audience)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Logger.Development)
	assert.Nil(t, cfg.Kafka.Brokers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("AUTH_TOKEN_TTL", "90m")
	t.Setenv("AUTH_TOKEN_ISSUER", "issuer")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "issuer", cfg.Auth.Issuer)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	t.Run("redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "one")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("token ttl", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN_TTL", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("7200")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, d)

	d, err = parseDuration(" 2h ")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, d)

	_, err = parseDuration("")
	assert.Error(t, err)
}

func TestAuthConfigValidate(t *testing.T) {
	valid := AuthConfig{PrivateKey: "a", PublicKey: "b", Issuer: "i", Audience: "a", TokenTTL: time.Hour}
	assert.NoError(t, valid.Validate())

	missingKeys := valid
	missingKeys.PrivateKey = ""
	assert.Error(t, missingKeys.Validate())

	noTTL := valid
	noTTL.TokenTTL = 0
	assert.Error(t, noTTL.Validate())
}
