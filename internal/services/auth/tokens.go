package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/staffapi/internal/dependencies/clock"
)

// TokenTTL is how long an issued token stays valid
const TokenTTL = 2 * time.Hour

// DefaultSecret signs tokens when no secret is configured.
// Anyone who knows it can mint tokens, so deployments must set one.
const DefaultSecret = "dev-secret"

// ErrInvalidToken is returned for malformed, forged or expired tokens
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the verified content of a bearer token
type Identity struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Claims is the JWT payload
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. Tokens are never
// stored, so there is no revocation: a token is valid until it expires.
type TokenService struct {
	secret []byte
	clock  clock.Clock
	parser *jwt.Parser
}

// NewTokenService creates a TokenService. An empty secret falls back to
// DefaultSecret.
func NewTokenService(secret string, clk clock.Clock) *TokenService {
	if secret == "" {
		secret = DefaultSecret
	}
	return &TokenService{
		secret: []byte(secret),
		clock:  clk,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(clk.Now),
			jwt.WithExpirationRequired(),
		),
	}
}

// Issue signs a token for subject/email expiring TokenTTL from now
func (s *TokenService) Issue(subject, email string) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// A token is rejected from the instant it reaches its expiry.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}

	return &Identity{
		Subject:   claims.Subject,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
