package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the coarse permission group of a user.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ErrInvalidEmail is returned for addresses that fail the format check.
var ErrInvalidEmail = errors.New("invalid email format")

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Email is a format-checked address compared by its normalized form.
type Email struct {
	value string
}

// ParseEmail trims, validates and lower-cases raw.
func ParseEmail(raw string) (Email, error) {
	trimmed := strings.TrimSpace(raw)
	if !emailPattern.MatchString(trimmed) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: strings.ToLower(trimmed)}, nil
}

// String returns the normalized address.
func (e Email) String() string {
	return e.value
}

// Equal compares normalized addresses.
func (e Email) Equal(other Email) bool {
	return e.value == other.value
}

// IsZero reports whether e was never parsed.
func (e Email) IsZero() bool {
	return e.value == ""
}

// User is an account allowed to file or manage tickets.
type User struct {
	eventLedger

	ID           string
	Name         string
	Email        Email
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// NewUser builds a user with a fresh id and records user.created.
func NewUser(name string, email Email, passwordHash string, role Role, now time.Time) *User {
	user := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
	}
	user.recordEvent(Event{
		Type:       EventUserCreated,
		OccurredAt: now,
		Payload: map[string]any{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email.String(),
			"role":  string(user.Role),
		},
	})
	return user
}

// RehydrateUser restores a persisted user without recording events.
func RehydrateUser(id, name string, email Email, passwordHash string, role Role, createdAt time.Time) *User {
	return &User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    createdAt,
	}
}
