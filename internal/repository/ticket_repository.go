package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ErrStaleTicket is returned by Save when the stored status no longer matches
// the status the ticket was loaded with.
var ErrStaleTicket = errors.New("ticket changed since it was loaded")

// TicketRepository encapsulates ticket persistence. FindByID returns
// (nil, nil) when the ticket does not exist. Save is a compare-and-set on
// the ticket's stored status.
type TicketRepository interface {
	Save(ctx context.Context, ticket *domain.Ticket) error
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	// List returns all tickets, newest first.
	List(ctx context.Context) ([]*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// Save inserts a new ticket or updates one whose stored status still matches
// the status it was loaded with.
func (r *ticketRepository) Save(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.StoredStatus() == "" {
		return r.insert(ctx, ticket)
	}
	const query = `
        UPDATE tickets SET
            title = $2,
            status = $3,
            priority = $4,
            updated_at = NOW()
        WHERE id = $1 AND status = $5`
	tag, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Status(),
		ticket.Priority,
		ticket.StoredStatus(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleTicket
	}
	ticket.MarkStored()
	return nil
}

func (r *ticketRepository) insert(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, title, status, priority, user_id, area_id, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (id) DO NOTHING`
	tag, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Status(),
		ticket.Priority,
		ticket.UserID,
		ticket.AreaID,
		ticket.CreatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleTicket
	}
	ticket.MarkStored()
	return nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	const query = `
        SELECT id::text, title, status, priority, user_id, area_id, created_at
        FROM tickets WHERE id=$1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return ticket, err
}

func (r *ticketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	const query = `
        SELECT id::text, title, status, priority, user_id, area_id, created_at
        FROM tickets ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		id, title, userID, areaID string
		status                    domain.TicketStatus
		priority                  domain.TicketPriority
		createdAt                 time.Time
	)
	if err := row.Scan(
		&id,
		&title,
		&status,
		&priority,
		&userID,
		&areaID,
		&createdAt,
	); err != nil {
		return nil, err
	}
	return domain.RehydrateTicket(id, title, status, priority, userID, areaID, createdAt), nil
}
