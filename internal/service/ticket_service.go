package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const minTitleLength = 3

// CreateTicketInput carries the fields accepted by CreateTicket.
type CreateTicketInput struct {
	Title    string
	Priority domain.TicketPriority
	UserID   string
	AreaID   string
}

// TicketService orchestrates the ticket lifecycle.
type TicketService struct {
	tickets TicketStore
	events  EventPublisher
	clock   Clock
	logger  *zap.Logger
}

// TicketDependencies encapsulates collaborators for the ticket service.
type TicketDependencies struct {
	Tickets TicketStore
	Events  EventPublisher
	Clock   Clock
	Logger  *zap.Logger
}

// NewTicketService builds the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets: deps.Tickets,
		events:  deps.Events,
		clock:   clock,
		logger:  logger,
	}
}

// CreateTicket opens a ticket in OPEN and publishes ticket.created.
func (s *TicketService) CreateTicket(ctx context.Context, in CreateTicketInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(in.Title)
	userID := strings.TrimSpace(in.UserID)
	areaID := strings.TrimSpace(in.AreaID)

	details := map[string]any{}
	if utf8.RuneCountInString(title) < minTitleLength {
		details["title"] = "must be at least 3 characters"
	}
	if !in.Priority.Valid() {
		details["priority"] = "must be one of LOW, MEDIUM, HIGH, URGENT"
	}
	if userID == "" {
		details["userId"] = "is required"
	}
	if areaID == "" {
		details["areaId"] = "is required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid ticket", details)
	}

	ticket := domain.NewTicket(title, in.Priority, userID, areaID, s.clock.Now())
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.events.PublishAll(ctx, ticket.PullDomainEvents())
	s.logger.Info("ticket created", zap.String("ticket_id", ticket.ID), zap.String("priority", string(ticket.Priority)))
	return ticket, nil
}

// UpdateTicketStatus moves a ticket through the lifecycle and publishes
// ticket.status_changed.
func (s *TicketService) UpdateTicketStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if ticket == nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}

	if err := ticket.TransitionTo(status, s.clock.Now()); err != nil {
		var transitionErr *domain.TransitionError
		if errors.As(err, &transitionErr) {
			return nil, apperrors.NewInvalidTransition(string(transitionErr.From), string(transitionErr.To), err)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.tickets.Save(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrStaleTicket) {
			return nil, apperrors.NewConflict("ticket was changed by another request", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.events.PublishAll(ctx, ticket.PullDomainEvents())
	return ticket, nil
}

// ListTickets returns every ticket, newest first.
func (s *TicketService) ListTickets(ctx context.Context) ([]*domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

// GetTicketByID fetches a single ticket.
func (s *TicketService) GetTicketByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if ticket == nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return ticket, nil
}
