package persistence

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrationsFS, migrationsDir+"/*.sql")
	require.NoError(t, err)
	require.Len(t, files, 3)

	for _, name := range files {
		body, err := fs.ReadFile(migrationsFS, name)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(body), "-- +goose Up"), name)
		assert.True(t, strings.Contains(string(body), "-- +goose Down"), name)
	}
}

func TestRunMigrationsWithoutDSN(t *testing.T) {
	assert.NoError(t, RunMigrations("", zap.NewNop()))
}

func TestUnconfiguredBackends(t *testing.T) {
	var pg *Postgres
	assert.ErrorIs(t, pg.Ping(t.Context()), ErrNotConfigured)
	assert.ErrorIs(t, (&Redis{}).Ping(t.Context()), ErrNotConfigured)
	assert.NotPanics(t, func() {
		pg.Close()
		(&Redis{}).Close()
	})
}
