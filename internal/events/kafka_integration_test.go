//go:build integration

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestKafkaSinkAgainstRedpanda(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v23.3.3")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	broker, err := container.KafkaSeedBroker(ctx)
	require.NoError(t, err)

	const topic = "helpdesk.domain-events"
	producer, err := NewKafkaClient([]string{broker}, topic)
	require.NoError(t, err)
	defer producer.Close()
	require.NoError(t, EnsureTopic(ctx, producer, topic, 1))
	require.NoError(t, EnsureTopic(ctx, producer, topic, 1))

	failures := 0
	sink := NewKafkaSink(producer, topic, zap.NewNop(), func() { failures++ })
	require.NoError(t, sink.Handle(ctx, sampleEvents()[0]))
	require.NoError(t, producer.Flush(ctx))
	assert.Zero(t, failures)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.Empty(t, fetches.Errors())
	records := fetches.Records()
	require.NotEmpty(t, records)

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &decoded))
	assert.Equal(t, domain.EventTicketCreated, decoded.Type)
	assert.Equal(t, "ticket.created", string(records[0].Key))
}
