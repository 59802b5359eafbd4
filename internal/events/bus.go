package events

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

const tracerName = "github.com/spec-kit/helpdesk-service/internal/events"

//go:generate mockgen -source=bus.go -destination=mocks/mocks.go -package=mocks Sink

// Sink consumes domain events published on the bus.
type Sink interface {
	Name() string
	Handle(ctx context.Context, event domain.Event) error
}

// FailureRecorder counts sink failures.
type FailureRecorder interface {
	RecordSinkFailure(sink string)
}

// Bus fans events out to subscribed sinks synchronously, in publish order.
// A failing or panicking sink is logged and never affects other sinks or
// the publisher.
type Bus struct {
	mu      sync.RWMutex
	sinks   []Sink
	logger  *zap.Logger
	metrics FailureRecorder
}

// NewBus creates an empty bus. metrics may be nil.
func NewBus(logger *zap.Logger, metrics FailureRecorder) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{logger: logger, metrics: metrics}
}

// Subscribe registers a sink. Sinks receive events in subscription order.
func (b *Bus) Subscribe(sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, sink)
}

// Publish delivers a single event.
func (b *Bus) Publish(ctx context.Context, event domain.Event) {
	b.PublishAll(ctx, []domain.Event{event})
}

// PublishAll delivers events in order.
func (b *Bus) PublishAll(ctx context.Context, events []domain.Event) {
	if len(events) == 0 {
		return
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "events.PublishAll")
	span.SetAttributes(attribute.Int("events.count", len(events)))
	defer span.End()

	b.mu.RLock()
	sinks := append([]Sink(nil), b.sinks...)
	b.mu.RUnlock()

	for _, event := range events {
		for _, sink := range sinks {
			if err := b.deliver(ctx, sink, event); err != nil {
				b.logger.Error("event sink failed",
					zap.String("sink", sink.Name()),
					zap.String("event_type", string(event.Type)),
					zap.Error(err),
				)
				if b.metrics != nil {
					b.metrics.RecordSinkFailure(sink.Name())
				}
			}
		}
	}
}

func (b *Bus) deliver(ctx context.Context, sink Sink, event domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return sink.Handle(ctx, event)
}
