package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

func TestLogSinkWritesEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	require.NoError(t, sink.Handle(context.Background(), sampleEvents()[0]))

	entries := logs.FilterMessage("domain event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ticket.created", entries[0].ContextMap()["event_type"])
}

type countingRecorder map[string]int

func (c countingRecorder) RecordDomainEvent(eventType string) { c[eventType]++ }

func TestMetricsSinkCountsByType(t *testing.T) {
	counts := countingRecorder{}
	sink := NewMetricsSink(counts)

	for _, event := range sampleEvents() {
		require.NoError(t, sink.Handle(context.Background(), event))
	}

	assert.Equal(t, 1, counts["ticket.created"])
	assert.Equal(t, 1, counts["ticket.status_changed"])
}

func TestAuditSinkAppends(t *testing.T) {
	store := repository.NewInMemoryEventLogRepository()
	sink := NewAuditSink(store)

	for _, event := range sampleEvents() {
		require.NoError(t, sink.Handle(context.Background(), event))
	}

	assert.Equal(t, sampleEvents(), store.Events())
}

type failingAppender struct{}

func (failingAppender) Append(context.Context, domain.Event) error { return errors.New("db down") }

func TestAuditSinkWrapsStoreError(t *testing.T) {
	err := NewAuditSink(failingAppender{}).Handle(context.Background(), sampleEvents()[0])
	assert.ErrorContains(t, err, "db down")
}

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (p *fakeProducer) Produce(_ context.Context, r *kgo.Record, promise func(*kgo.Record, error)) {
	p.records = append(p.records, r)
	promise(r, p.err)
}

func TestKafkaSinkProducesJSON(t *testing.T) {
	producer := &fakeProducer{}
	sink := NewKafkaSink(producer, "helpdesk.domain-events", zap.NewNop(), nil)

	require.NoError(t, sink.Handle(context.Background(), sampleEvents()[1]))

	require.Len(t, producer.records, 1)
	record := producer.records[0]
	assert.Equal(t, "helpdesk.domain-events", record.Topic)
	assert.Equal(t, "ticket.status_changed", string(record.Key))

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(record.Value, &decoded))
	assert.Equal(t, domain.EventTicketStatusChanged, decoded.Type)
	assert.Equal(t, "ASSIGNED", decoded.Payload["to"])
}

func TestKafkaSinkReportsAsyncFailure(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker unavailable")}
	failures := 0
	sink := NewKafkaSink(producer, "topic", zap.NewNop(), func() { failures++ })

	require.NoError(t, sink.Handle(context.Background(), sampleEvents()[0]))
	assert.Equal(t, 1, failures)
}
