package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestNotificationServiceRoutesEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewNotificationService(zap.New(core), config.NotificationConfig{
		EmailFrom:  "helpdesk@hospital.edu",
		WebhookURL: "https://hooks.hospital.edu/desk",
	})
	assert.Equal(t, []string{"email", "webhook"}, svc.Channels())

	ctx := context.Background()
	require.NoError(t, svc.Handle(ctx, domain.Event{Type: domain.EventTicketCreated, Payload: map[string]any{"id": "t1"}}))
	require.NoError(t, svc.Handle(ctx, domain.Event{Type: domain.EventTicketStatusChanged, Payload: map[string]any{"id": "t1"}}))
	require.NoError(t, svc.Handle(ctx, domain.Event{Type: domain.EventUserCreated, Payload: map[string]any{"id": "u1"}}))

	assert.Equal(t, 2, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 2, logs.FilterMessage("sendWebhookNotificationStub").Len())
}

func TestNotificationServiceWithoutChannels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewNotificationService(zap.New(core), config.NotificationConfig{})

	require.NoError(t, svc.Handle(context.Background(), domain.Event{Type: domain.EventTicketCreated}))
	assert.Empty(t, svc.Channels())
	assert.Zero(t, logs.Len())
}
