package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type TokenServiceSuite struct {
	suite.Suite
	keys    KeyPair
	now     time.Time
	service *TokenService
	payload TokenPayload
}

func TestTokenServiceSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceSuite))
}

func (s *TokenServiceSuite) SetupTest() {
	keys, _, _, err := GenerateKeyPair()
	s.Require().NoError(err)
	s.keys = keys
	s.now = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.service = s.newService("hospital.desk.api", "hospital.desk.clients", keys, func() time.Time { return s.now })
	s.payload = TokenPayload{Subject: "u1", Email: "nurse@hospital.edu", Role: domain.RoleAdmin}
}

func (s *TokenServiceSuite) newService(issuer, audience string, keys KeyPair, now func() time.Time) *TokenService {
	svc, err := NewTokenService(TokenConfig{
		Keys:     keys,
		Issuer:   issuer,
		Audience: audience,
		TTL:      2 * time.Hour,
		Now:      now,
	})
	s.Require().NoError(err)
	return svc
}

func (s *TokenServiceSuite) TestRoundTrip() {
	token, err := s.service.Sign(s.payload)
	s.Require().NoError(err)
	s.NotEmpty(token)

	got, err := s.service.Verify(token)
	s.Require().NoError(err)
	s.Equal(s.payload, got)
}

func (s *TokenServiceSuite) TestExpiry() {
	token, err := s.service.Sign(s.payload)
	s.Require().NoError(err)

	s.Run("valid just before expiry", func() {
		s.now = s.now.Add(2*time.Hour - time.Second)
		_, err := s.service.Verify(token)
		s.NoError(err)
	})

	s.Run("invalid at the expiry instant", func() {
		s.now = time.Date(2025, 1, 1, 14, 0, 0, 0, time.UTC)
		_, err := s.service.Verify(token)
		s.ErrorIs(err, jwt.ErrTokenExpired)
	})

	s.Run("invalid after expiry", func() {
		s.now = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
		_, err := s.service.Verify(token)
		s.ErrorIs(err, jwt.ErrTokenExpired)
	})
}

func (s *TokenServiceSuite) TestIssuerAndAudienceMismatch() {
	clock := func() time.Time { return s.now }

	s.Run("issuer", func() {
		other := s.newService("someone.else", "hospital.desk.clients", s.keys, clock)
		token, err := other.Sign(s.payload)
		s.Require().NoError(err)

		_, err = s.service.Verify(token)
		s.ErrorIs(err, jwt.ErrTokenInvalidIssuer)
	})

	s.Run("audience", func() {
		other := s.newService("hospital.desk.api", "other.clients", s.keys, clock)
		token, err := other.Sign(s.payload)
		s.Require().NoError(err)

		_, err = s.service.Verify(token)
		s.ErrorIs(err, jwt.ErrTokenInvalidAudience)
	})
}

func (s *TokenServiceSuite) TestTampering() {
	token, err := s.service.Sign(s.payload)
	s.Require().NoError(err)

	s.Run("foreign key", func() {
		foreign, _, _, err := GenerateKeyPair()
		s.Require().NoError(err)
		forger := s.newService("hospital.desk.api", "hospital.desk.clients", foreign, func() time.Time { return s.now })
		forged, err := forger.Sign(s.payload)
		s.Require().NoError(err)

		_, err = s.service.Verify(forged)
		s.Error(err)
	})

	s.Run("modified signature", func() {
		parts := strings.Split(token, ".")
		s.Require().Len(parts, 3)
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		_, err := s.service.Verify(parts[0] + "." + parts[1] + "." + string(sig))
		s.Error(err)
	})

	s.Run("symmetric algorithm is refused", func() {
		claims := Claims{
			Role: domain.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u1",
				Issuer:    "hospital.desk.api",
				Audience:  jwt.ClaimStrings{"hospital.desk.clients"},
				ExpiresAt: jwt.NewNumericDate(s.now.Add(time.Hour)),
			},
		}
		hs, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.keys.Public))
		s.Require().NoError(err)

		_, err = s.service.Verify(hs)
		s.ErrorIs(err, jwt.ErrTokenSignatureInvalid)
	})

	s.Run("garbage", func() {
		_, err := s.service.Verify("not-a-token")
		s.Error(err)
	})
}

func (s *TokenServiceSuite) TestVerifyOnly() {
	token, err := s.service.Sign(s.payload)
	s.Require().NoError(err)

	verifier := s.newService("hospital.desk.api", "hospital.desk.clients", KeyPair{Public: s.keys.Public}, func() time.Time { return s.now })

	got, err := verifier.Verify(token)
	s.Require().NoError(err)
	s.Equal(s.payload, got)

	_, err = verifier.Sign(s.payload)
	s.ErrorIs(err, ErrSigningUnavailable)
}

func (s *TokenServiceSuite) TestNewTokenServiceRequiresPublicKey() {
	_, err := NewTokenService(TokenConfig{Issuer: "i", Audience: "a"})
	s.ErrorIs(err, ErrInvalidKey)
}
