package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/staffapi/internal/model"
	"github.com/mcoot/staffapi/internal/storage"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates users against the credential store
type Service struct {
	storage storage.Storage
	tokens  *TokenService
	logger  *slog.Logger
}

// New creates a new auth Service
func New(storage storage.Storage, tokens *TokenService, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		tokens:  tokens,
		logger:  logger,
	}
}

// Tokens returns the token service used to sign login tokens
func (s *Service) Tokens() *TokenService {
	return s.tokens
}

// Login checks email/password and returns a signed bearer token.
// Accounts that have not been activated may still log in.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(string(user.ID), user.Email)
	if err != nil {
		return "", err
	}

	s.logger.Info("user logged in", slog.String("user_id", string(user.ID)))
	return token, nil
}

// Verify validates a bearer token
func (s *Service) Verify(token string) (*Identity, error) {
	return s.tokens.Verify(token)
}
