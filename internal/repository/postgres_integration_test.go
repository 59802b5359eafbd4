//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/testutil/containers"
)

type PostgresRepositorySuite struct {
	suite.Suite
	users   UserRepository
	tickets TicketRepository
	events  EventLogRepository
}

func TestPostgresRepositorySuite(t *testing.T) {
	suite.Run(t, new(PostgresRepositorySuite))
}

func (s *PostgresRepositorySuite) SetupSuite() {
	pool := containers.NewMigratedPool(s.T())
	s.users = NewUserRepository(pool)
	s.tickets = NewTicketRepository(pool)
	s.events = NewEventLogRepository(pool)
}

func (s *PostgresRepositorySuite) TestUserRoundTripAndDuplicate() {
	ctx := context.Background()
	email, err := domain.ParseEmail("Nurse@Hospital.edu")
	s.Require().NoError(err)

	user := domain.NewUser("Nurse Joy", email, "hash", domain.RoleUser, time.Now().UTC())
	saved, err := s.users.Save(ctx, user)
	s.Require().NoError(err)
	s.Equal(user.ID, saved.ID)

	found, err := s.users.FindByEmail(ctx, email)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal("nurse@hospital.edu", found.Email.String())

	byID, err := s.users.FindByID(ctx, user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(byID)
	s.Equal(user.Name, byID.Name)

	dup := domain.NewUser("Other", email, "hash", domain.RoleUser, time.Now().UTC())
	_, err = s.users.Save(ctx, dup)
	s.ErrorIs(err, ErrDuplicateEmail)

	missing, err := s.users.FindByID(ctx, "not-a-uuid")
	s.NoError(err)
	s.Nil(missing)
}

func (s *PostgresRepositorySuite) TestTicketUpsertAndList() {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	older := domain.NewTicket("Printer down", domain.TicketPriorityHigh, "u1", "a1", base)
	newer := domain.NewTicket("Monitor flicker", domain.TicketPriorityLow, "u1", "a1", base.Add(time.Minute))
	s.Require().NoError(s.tickets.Save(ctx, older))
	s.Require().NoError(s.tickets.Save(ctx, newer))

	s.Require().NoError(older.TransitionTo(domain.TicketStatusAssigned, base.Add(2*time.Minute)))
	s.Require().NoError(s.tickets.Save(ctx, older))

	found, err := s.tickets.FindByID(ctx, older.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(domain.TicketStatusAssigned, found.Status())
	s.Empty(found.PullDomainEvents())

	list, err := s.tickets.List(ctx)
	s.Require().NoError(err)
	s.Require().GreaterOrEqual(len(list), 2)
	s.Equal(newer.ID, list[0].ID)
	s.Equal(older.ID, list[1].ID)
}

func (s *PostgresRepositorySuite) TestTicketSaveRejectsStaleCopy() {
	ctx := context.Background()
	ticket := domain.NewTicket("Badge reader", domain.TicketPriorityMedium, "u1", "a1", time.Now().UTC())
	s.Require().NoError(s.tickets.Save(ctx, ticket))

	first, err := s.tickets.FindByID(ctx, ticket.ID)
	s.Require().NoError(err)
	second, err := s.tickets.FindByID(ctx, ticket.ID)
	s.Require().NoError(err)

	s.Require().NoError(first.TransitionTo(domain.TicketStatusCancelled, time.Now().UTC()))
	s.Require().NoError(s.tickets.Save(ctx, first))

	s.Require().NoError(second.TransitionTo(domain.TicketStatusAssigned, time.Now().UTC()))
	s.ErrorIs(s.tickets.Save(ctx, second), ErrStaleTicket)

	stored, err := s.tickets.FindByID(ctx, ticket.ID)
	s.Require().NoError(err)
	s.Equal(domain.TicketStatusCancelled, stored.Status())
}

func (s *PostgresRepositorySuite) TestEventLogAppend() {
	event := domain.Event{
		Type:       domain.EventTicketCreated,
		OccurredAt: time.Now().UTC(),
		Payload:    map[string]any{"id": "t1"},
	}
	s.NoError(s.events.Append(context.Background(), event))
}
