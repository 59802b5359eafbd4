package domain

import "time"

// EventType tags a domain event.
type EventType string

const (
	EventUserCreated         EventType = "user.created"
	EventTicketCreated       EventType = "ticket.created"
	EventTicketStatusChanged EventType = "ticket.status_changed"
)

// Event is an immutable fact produced by an entity operation.
type Event struct {
	Type       EventType      `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// eventLedger holds events recorded by an entity until a use-case drains them.
type eventLedger struct {
	pending []Event
}

func (l *eventLedger) recordEvent(event Event) {
	l.pending = append(l.pending, event)
}

// PullDomainEvents returns the pending events in the order they were recorded
// and clears them, so a second call returns an empty slice.
func (l *eventLedger) PullDomainEvents() []Event {
	events := make([]Event, len(l.pending))
	copy(events, l.pending)
	l.pending = nil
	return events
}
