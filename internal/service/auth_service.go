package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const (
	minNameLength     = 2
	minPasswordLength = 8

	// TokenTypeBearer is the token type reported by LoginUser.
	TokenTypeBearer = "Bearer"
)

// RegisterInput carries the fields accepted by RegisterUser. An empty Role
// registers a USER.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// LoginResult is returned by LoginUser. ExpiresIn is in seconds.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenSigner
	events EventPublisher
	clock  Clock
	logger *zap.Logger

	decoyOnce sync.Once
	decoyHash string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Users  UserStore
	Hasher PasswordHasher
	Tokens TokenSigner
	Events EventPublisher
	Clock  Clock
	Logger *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:  deps.Users,
		hasher: deps.Hasher,
		tokens: deps.Tokens,
		events: deps.Events,
		clock:  clock,
		logger: logger,
	}
}

// RegisterUser creates a new account and publishes user.created.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}

	details := map[string]any{}
	if utf8.RuneCountInString(name) < minNameLength {
		details["name"] = "must be at least 2 characters"
	}
	email, err := domain.ParseEmail(in.Email)
	if err != nil {
		details["email"] = "must be a valid email address"
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		details["password"] = "must be at least 8 characters"
	}
	if !role.Valid() {
		details["role"] = "must be ADMIN or USER"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid registration", details)
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if existing != nil {
		return nil, emailInUse(email)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := domain.NewUser(name, email, hash, role, s.clock.Now())
	saved, err := s.users.Save(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, emailInUse(email)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.events.PublishAll(ctx, user.PullDomainEvents())
	s.logger.Info("user registered", zap.String("user_id", saved.ID), zap.String("role", string(saved.Role)))
	return saved, nil
}

// LoginUser verifies credentials and issues an access token. Unknown
// emails and wrong passwords fail identically.
func (s *AuthService) LoginUser(ctx context.Context, rawEmail, password string) (*LoginResult, error) {
	email, err := domain.ParseEmail(rawEmail)
	if err != nil {
		s.hasher.Compare(password, s.decoy())
		return nil, apperrors.NewInvalidCredentials()
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if user == nil {
		// Keep the unknown-email path as slow as a real comparison.
		s.hasher.Compare(password, s.decoy())
		return nil, apperrors.NewInvalidCredentials()
	}
	if !s.hasher.Compare(password, user.PasswordHash) {
		return nil, apperrors.NewInvalidCredentials()
	}

	token, err := s.tokens.Sign(auth.TokenPayload{
		Subject: user.ID,
		Email:   user.Email.String(),
		Role:    user.Role,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// fallbackDecoyHash is a well-formed cost 12 bcrypt hash that matches no
// password.
const fallbackDecoyHash = "$2a$12$nRwEHKsFZCJ1zGcJ0FNaFwEaDPjzQNlVLWtKGFY90m54skdVdIk9p"

func (s *AuthService) decoy() string {
	s.decoyOnce.Do(func() {
		s.decoyHash = fallbackDecoyHash
		hash, err := s.hasher.Hash("decoy-password-never-matches")
		if err != nil {
			s.logger.Warn("unable to build decoy hash, using fallback", zap.Error(err))
			return
		}
		s.decoyHash = hash
	})
	return s.decoyHash
}

func emailInUse(email domain.Email) error {
	return apperrors.NewConflict("email already in use", map[string]any{"email": email.String()})
}
