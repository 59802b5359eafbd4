package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventLogRepository stores published domain events as an audit trail.
type EventLogRepository interface {
	Append(ctx context.Context, event domain.Event) error
}

type eventLogRepository struct {
	pool *pgxpool.Pool
}

// NewEventLogRepository builds repository.
func NewEventLogRepository(pool *pgxpool.Pool) EventLogRepository {
	return &eventLogRepository{pool: pool}
}

func (r *eventLogRepository) Append(ctx context.Context, event domain.Event) error {
	const query = `
        INSERT INTO domain_events (id, type, occurred_at, payload)
        VALUES ($1,$2,$3,$4)`
	_, err := r.pool.Exec(ctx, query,
		uuid.NewString(),
		event.Type,
		event.OccurredAt,
		event.Payload,
	)
	return err
}
