package service

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks UserStore,TicketStore,EventPublisher,Clock

// UserStore persists users. Lookups return (nil, nil) when nothing matches.
type UserStore interface {
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error)
}

// TicketStore persists tickets. List is ordered newest first.
type TicketStore interface {
	Save(ctx context.Context, ticket *domain.Ticket) error
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]*domain.Ticket, error)
}

// EventPublisher delivers drained domain events.
type EventPublisher interface {
	PublishAll(ctx context.Context, events []domain.Event)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(plain, hashed string) bool
}

// TokenSigner issues access tokens.
type TokenSigner interface {
	Sign(payload auth.TokenPayload) (string, error)
	TTL() time.Duration
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
