package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusAssigned   TicketStatus = "ASSIGNED"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
	TicketStatusCancelled  TicketStatus = "CANCELLED"
)

// TicketStatuses lists every status in lifecycle order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusAssigned,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
	TicketStatusCancelled,
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. Status changes only through
// TransitionTo.
type Ticket struct {
	eventLedger

	ID        string
	Title     string
	Priority  TicketPriority
	UserID    string
	AreaID    string
	CreatedAt time.Time

	status TicketStatus
	// stored is the status last read from or written to the store; empty
	// until the ticket is first saved.
	stored TicketStatus
}

// NewTicket opens a ticket with a generated id and records ticket.created.
func NewTicket(title string, priority TicketPriority, userID, areaID string, now time.Time) *Ticket {
	ticket := &Ticket{
		ID:        uuid.NewString(),
		Title:     title,
		Priority:  priority,
		UserID:    userID,
		AreaID:    areaID,
		CreatedAt: now,
		status:    TicketStatusOpen,
	}
	ticket.recordEvent(Event{
		Type:       EventTicketCreated,
		OccurredAt: now,
		Payload: map[string]any{
			"id":       ticket.ID,
			"title":    ticket.Title,
			"priority": string(ticket.Priority),
			"userId":   ticket.UserID,
			"areaId":   ticket.AreaID,
		},
	})
	return ticket
}

// RehydrateTicket restores a persisted ticket without recording events.
func RehydrateTicket(id, title string, status TicketStatus, priority TicketPriority, userID, areaID string, createdAt time.Time) *Ticket {
	return &Ticket{
		ID:        id,
		Title:     title,
		Priority:  priority,
		UserID:    userID,
		AreaID:    areaID,
		CreatedAt: createdAt,
		status:    status,
		stored:    status,
	}
}

// Status returns the current lifecycle state.
func (t *Ticket) Status() TicketStatus {
	return t.status
}

// StoredStatus returns the status the store holds for this ticket as far as
// this copy knows, or "" if it was never saved. Stores use it to reject
// writes based on a stale read.
func (t *Ticket) StoredStatus() TicketStatus {
	return t.stored
}

// MarkStored records that the current status has been persisted.
func (t *Ticket) MarkStored() {
	t.stored = t.status
}

// TransitionTo moves the ticket to next and records ticket.status_changed.
// A rejected move leaves the ticket untouched.
func (t *Ticket) TransitionTo(next TicketStatus, now time.Time) error {
	if !CanTransition(t.status, next) {
		return &TransitionError{From: t.status, To: next}
	}
	previous := t.status
	t.status = next
	t.recordEvent(Event{
		Type:       EventTicketStatusChanged,
		OccurredAt: now,
		Payload: map[string]any{
			"id":   t.ID,
			"from": string(previous),
			"to":   string(next),
		},
	})
	return nil
}
