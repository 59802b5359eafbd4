package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ErrDuplicateEmail is returned by Save when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolation = "23505"

// UserRepository defines persistence access for users. Lookups return
// (nil, nil) when nothing matches.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
        INSERT INTO users (id, name, email, password_hash, role, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`

	var createdAt time.Time
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email.String(),
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
	).Scan(&createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return domain.RehydrateUser(user.ID, user.Name, user.Email, user.PasswordHash, user.Role, createdAt), nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	const query = `
        SELECT id::text, name, email, password_hash, role, created_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	const query = `
        SELECT id::text, name, email, password_hash, role, created_at
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email.String())
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		id, name, rawEmail, hash string
		role                     domain.Role
		createdAt                time.Time
	)
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&id,
		&name,
		&rawEmail,
		&hash,
		&role,
		&createdAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	email, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateUser(id, name, email, hash, role, createdAt), nil
}
