package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ErrSigningUnavailable is returned by Sign on a verify-only service.
var ErrSigningUnavailable = errors.New("token signing key not configured")

// TokenPayload is the identity bound into an access token.
type TokenPayload struct {
	Subject string
	Email   string
	Role    domain.Role
}

// Claims describes the token body.
type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Keys     KeyPair
	Issuer   string
	Audience string
	TTL      time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// TokenService signs and verifies EdDSA access tokens. It holds no mutable
// state and is safe for concurrent use.
type TokenService struct {
	keys     KeyPair
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

// NewTokenService builds a service from loaded keys.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Keys.Public) == 0 {
		return nil, ErrInvalidKey
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 2 * time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	ts := &TokenService{
		keys:     cfg.Keys,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      now,
	}
	ts.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(now),
	)
	return ts, nil
}

// TTL returns how long issued tokens stay valid.
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Sign issues a token for payload expiring TTL after now.
func (ts *TokenService) Sign(payload TokenPayload) (string, error) {
	if len(ts.keys.Private) == 0 {
		return "", ErrSigningUnavailable
	}
	issuedAt := ts.now()
	claims := Claims{
		Email: payload.Email,
		Role:  payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.Subject,
			Issuer:    ts.issuer,
			Audience:  jwt.ClaimStrings{ts.audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ts.ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(ts.keys.Private)
}

// Verify checks signature, issuer, audience and expiry and returns the signed payload.
func (ts *TokenService) Verify(tokenStr string) (TokenPayload, error) {
	var claims Claims
	parsed, err := ts.parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (interface{}, error) {
		return ts.keys.Public, nil
	})
	if err != nil {
		return TokenPayload{}, err
	}
	if !parsed.Valid {
		return TokenPayload{}, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return TokenPayload{}, jwt.ErrTokenRequiredClaimMissing
	}
	return TokenPayload{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}
