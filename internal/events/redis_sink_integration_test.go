//go:build integration

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/testutil/containers"
)

func TestRedisSinkPublishes(t *testing.T) {
	client := containers.NewRedisClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "helpdesk.events")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	sink := NewRedisSink(client, "helpdesk.events")
	require.NoError(t, sink.Handle(ctx, sampleEvents()[0]))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var decoded domain.Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &decoded))
	assert.Equal(t, domain.EventTicketCreated, decoded.Type)
	assert.Equal(t, "t1", decoded.Payload["id"])
}
