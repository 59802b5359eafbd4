package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// InMemoryUserRepository keeps users in process memory. Used when no
// database is configured and in tests.
type InMemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

// NewInMemoryUserRepository returns an empty store.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryUserRepository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, exists := r.byEmail[user.Email.String()]; exists && id != user.ID {
		return nil, ErrDuplicateEmail
	}
	r.byID[user.ID] = snapshotUser(user)
	r.byEmail[user.Email.String()] = user.ID

	stored := r.byID[user.ID]
	return restoreUser(stored), nil
}

func (r *InMemoryUserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return restoreUser(stored), nil
}

func (r *InMemoryUserRepository) FindByEmail(_ context.Context, email domain.Email) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email.String()]
	if !ok {
		return nil, nil
	}
	return restoreUser(r.byID[id]), nil
}

func snapshotUser(u *domain.User) domain.User {
	return domain.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}

func restoreUser(u domain.User) *domain.User {
	return domain.RehydrateUser(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt)
}

type ticketRow struct {
	id       string
	title    string
	status   domain.TicketStatus
	priority domain.TicketPriority
	userID   string
	areaID   string
	created  time.Time
	seq      int
}

// InMemoryTicketRepository keeps tickets in process memory. Readers get
// fresh copies, so only Save changes stored state.
type InMemoryTicketRepository struct {
	mu   sync.RWMutex
	rows map[string]ticketRow
	seq  int
}

// NewInMemoryTicketRepository returns an empty store.
func NewInMemoryTicketRepository() *InMemoryTicketRepository {
	return &InMemoryTicketRepository{rows: make(map[string]ticketRow)}
}

func (r *InMemoryTicketRepository) Save(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, exists := r.rows[ticket.ID]
	switch stored := ticket.StoredStatus(); {
	case stored == "" && exists:
		return ErrStaleTicket
	case stored != "" && (!exists || row.status != stored):
		return ErrStaleTicket
	case !exists:
		r.seq++
		row.seq = r.seq
	}
	row.id = ticket.ID
	row.title = ticket.Title
	row.status = ticket.Status()
	row.priority = ticket.Priority
	row.userID = ticket.UserID
	row.areaID = ticket.AreaID
	row.created = ticket.CreatedAt
	r.rows[ticket.ID] = row
	ticket.MarkStored()
	return nil
}

func (r *InMemoryTicketRepository) FindByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return row.restore(), nil
}

func (r *InMemoryTicketRepository) List(_ context.Context) ([]*domain.Ticket, error) {
	r.mu.RLock()
	rows := make([]ticketRow, 0, len(r.rows))
	for _, row := range r.rows {
		rows = append(rows, row)
	}
	r.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		ci, cj := rows[i].created, rows[j].created
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return rows[i].seq > rows[j].seq
	})

	result := make([]*domain.Ticket, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.restore())
	}
	return result, nil
}

func (row ticketRow) restore() *domain.Ticket {
	return domain.RehydrateTicket(row.id, row.title, row.status, row.priority, row.userID, row.areaID, row.created)
}

// InMemoryEventLogRepository collects appended events.
type InMemoryEventLogRepository struct {
	mu     sync.Mutex
	events []domain.Event
}

// NewInMemoryEventLogRepository returns an empty log.
func NewInMemoryEventLogRepository() *InMemoryEventLogRepository {
	return &InMemoryEventLogRepository{}
}

func (r *InMemoryEventLogRepository) Append(_ context.Context, event domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the log in append order.
func (r *InMemoryEventLogRepository) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, len(r.events))
	copy(out, r.events)
	return out
}

var (
	_ UserRepository     = (*InMemoryUserRepository)(nil)
	_ TicketRepository   = (*InMemoryTicketRepository)(nil)
	_ EventLogRepository = (*InMemoryEventLogRepository)(nil)
)
