package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// LogSink writes every event to the structured log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink builds a LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Handle(_ context.Context, event domain.Event) error {
	s.logger.Info("domain event",
		zap.String("event_type", string(event.Type)),
		zap.Time("occurred_at", event.OccurredAt),
		zap.Any("payload", event.Payload),
	)
	return nil
}

// EventCounter counts events by type.
type EventCounter interface {
	RecordDomainEvent(eventType string)
}

// MetricsSink counts delivered events.
type MetricsSink struct {
	counter EventCounter
}

// NewMetricsSink builds a MetricsSink.
func NewMetricsSink(counter EventCounter) *MetricsSink {
	return &MetricsSink{counter: counter}
}

func (s *MetricsSink) Name() string { return "metrics" }

func (s *MetricsSink) Handle(_ context.Context, event domain.Event) error {
	s.counter.RecordDomainEvent(string(event.Type))
	return nil
}

// EventAppender persists events.
type EventAppender interface {
	Append(ctx context.Context, event domain.Event) error
}

// AuditSink stores events in the event log.
type AuditSink struct {
	store EventAppender
}

// NewAuditSink builds an AuditSink.
func NewAuditSink(store EventAppender) *AuditSink {
	return &AuditSink{store: store}
}

func (s *AuditSink) Name() string { return "audit" }

func (s *AuditSink) Handle(ctx context.Context, event domain.Event) error {
	if err := s.store.Append(ctx, event); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// RedisSink publishes events as JSON on a Redis pub/sub channel.
type RedisSink struct {
	client  redis.UniversalClient
	channel string
}

// NewRedisSink builds a RedisSink.
func NewRedisSink(client redis.UniversalClient, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Handle(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return s.client.Publish(ctx, s.channel, body).Err()
}

// KafkaProducer is the subset of *kgo.Client used by KafkaSink.
type KafkaProducer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// KafkaSink produces events to a Kafka topic keyed by event type. Produce
// is asynchronous; broker failures are reported through onFailure.
type KafkaSink struct {
	producer  KafkaProducer
	topic     string
	logger    *zap.Logger
	onFailure func()
}

// NewKafkaSink builds a KafkaSink. onFailure may be nil.
func NewKafkaSink(producer KafkaProducer, topic string, logger *zap.Logger, onFailure func()) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic, logger: logger, onFailure: onFailure}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Handle(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Type),
		Value: body,
	}
	// The request context is cancelled once the response is written.
	s.producer.Produce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		if err == nil {
			return
		}
		s.logger.Error("kafka produce failed",
			zap.String("topic", r.Topic),
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		if s.onFailure != nil {
			s.onFailure()
		}
	})
	return nil
}
