package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload. The owner is taken from the access token.
type CreateTicketRequest struct {
	Title    string                `json:"title"`
	Priority domain.TicketPriority `json:"priority"`
	AreaID   string                `json:"areaId"`
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketResponse is the public shape of a ticket.
type TicketResponse struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Status    domain.TicketStatus   `json:"status"`
	Priority  domain.TicketPriority `json:"priority"`
	UserID    string                `json:"userId"`
	AreaID    string                `json:"areaId"`
	CreatedAt time.Time             `json:"createdAt"`
}

// NewTicketResponse maps a ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:        t.ID,
		Title:     t.Title,
		Status:    t.Status(),
		Priority:  t.Priority,
		UserID:    t.UserID,
		AreaID:    t.AreaID,
		CreatedAt: t.CreatedAt,
	}
}
