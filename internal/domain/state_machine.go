package domain

import "fmt"

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusAssigned, TicketStatusCancelled},
	TicketStatusAssigned:   {TicketStatusInProgress, TicketStatusCancelled},
	TicketStatusInProgress: {TicketStatusResolved, TicketStatusCancelled},
	TicketStatusResolved:   {TicketStatusClosed},
	TicketStatusClosed:     {},
	TicketStatusCancelled:  {},
}

// CanTransition reports whether a ticket may move from one status to another.
// Unknown statuses have no transitions.
func CanTransition(from, to TicketStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status TicketStatus) bool {
	next, known := allowedTransitions[status]
	return known && len(next) == 0
}

// TransitionError describes a rejected status change.
type TransitionError struct {
	From TicketStatus
	To   TicketStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}
