package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/staffapi/internal/dependencies/mocks"
)

type TokenServiceSuite struct {
	suite.Suite
	clock  *mocks.MockClock
	tokens *TokenService
}

func TestTokenServiceSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceSuite))
}

func (s *TokenServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.tokens = NewTokenService("test-secret", s.clock)
}

func (s *TokenServiceSuite) TestIssueAndVerify() {
	token, err := s.tokens.Issue("user-1", "alice@example.com")
	s.Require().NoError(err)
	s.NotEmpty(token)

	identity, err := s.tokens.Verify(token)
	s.Require().NoError(err)
	s.Equal("user-1", identity.Subject)
	s.Equal("alice@example.com", identity.Email)
	s.True(identity.IssuedAt.Equal(s.clock.Now()))
	s.True(identity.ExpiresAt.Equal(s.clock.Now().Add(2 * time.Hour)))
}

func (s *TokenServiceSuite) TestValidJustBeforeExpiry() {
	token, _ := s.tokens.Issue("user-1", "alice@example.com")

	s.clock.Advance(TokenTTL - time.Second)

	_, err := s.tokens.Verify(token)
	s.NoError(err)
}

func (s *TokenServiceSuite) TestRejectedAtExpiry() {
	token, _ := s.tokens.Issue("user-1", "alice@example.com")

	s.clock.Advance(TokenTTL)

	_, err := s.tokens.Verify(token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *TokenServiceSuite) TestRejectedAfterExpiry() {
	token, _ := s.tokens.Issue("user-1", "alice@example.com")

	s.clock.Advance(3 * time.Hour)

	_, err := s.tokens.Verify(token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *TokenServiceSuite) TestRejectsForgedSignature() {
	other := NewTokenService("another-secret", s.clock)
	token, _ := other.Issue("user-1", "alice@example.com")

	_, err := s.tokens.Verify(token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *TokenServiceSuite) TestRejectsOtherAlgorithm() {
	claims := Claims{
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(s.clock.Now()),
			ExpiresAt: jwt.NewNumericDate(s.clock.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	s.Require().NoError(err)

	_, err = s.tokens.Verify(token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *TokenServiceSuite) TestRejectsUnsignedToken() {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(s.clock.Now()),
			ExpiresAt: jwt.NewNumericDate(s.clock.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	s.Require().NoError(err)

	_, err = s.tokens.Verify(token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *TokenServiceSuite) TestRejectsMissingExpiry() {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "user-1",
			IssuedAt: jwt.NewNumericDate(s.clock.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	s.Require().NoError(err)

	_, err = s.tokens.Verify(token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *TokenServiceSuite) TestRejectsMalformed() {
	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := s.tokens.Verify(token)
		s.ErrorIs(err, ErrInvalidToken, "token %q", token)
	}
}

func (s *TokenServiceSuite) TestEmptySecretFallsBackToDefault() {
	fallback := NewTokenService("", s.clock)
	token, err := fallback.Issue("user-1", "alice@example.com")
	s.Require().NoError(err)

	_, err = NewTokenService(DefaultSecret, s.clock).Verify(token)
	s.NoError(err)
}
