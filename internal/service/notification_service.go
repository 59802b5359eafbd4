package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// NotificationService turns domain events into outbound notifications.
// Delivery is stubbed: configured channels are logged at debug.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		logger: logger,
		cfg:    cfg,
	}
}

// Name identifies the service as an event sink.
func (n *NotificationService) Name() string { return "notification" }

// Handle routes an event to the matching notification channels.
func (n *NotificationService) Handle(ctx context.Context, event domain.Event) error {
	switch event.Type {
	case domain.EventUserCreated:
		n.sendEmailNotificationStub(ctx, event)
	case domain.EventTicketCreated:
		n.sendEmailNotificationStub(ctx, event)
		n.sendWebhookNotificationStub(ctx, event)
	case domain.EventTicketStatusChanged:
		n.sendWebhookNotificationStub(ctx, event)
	}
	return nil
}

// Channels reports which stub channels are configured.
func (n *NotificationService) Channels() []string {
	var channels []string
	if strings.TrimSpace(n.cfg.EmailFrom) != "" {
		channels = append(channels, "email")
	}
	if strings.TrimSpace(n.cfg.WebhookURL) != "" {
		channels = append(channels, "webhook")
	}
	return channels
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event domain.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Any("subject_id", event.Payload["id"]),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event domain.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Any("subject_id", event.Payload["id"]),
		zap.String("event_type", string(event.Type)))
}
