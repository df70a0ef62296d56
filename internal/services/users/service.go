package users

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/staffapi/internal/dependencies/clock"
	"github.com/mcoot/staffapi/internal/dependencies/idgen"
	"github.com/mcoot/staffapi/internal/dependencies/random"
	"github.com/mcoot/staffapi/internal/model"
	"github.com/mcoot/staffapi/internal/storage"
)

const (
	// ActivationTokenLength is the length of the emailed activation token
	ActivationTokenLength = 32

	// DefaultAvatarMaxBytes caps avatar uploads when no limit is configured
	DefaultAvatarMaxBytes = 2 << 20

	// MinPasswordLength is the shortest password accepted at registration
	MinPasswordLength = 6
)

var (
	emailPattern     = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	extensionPattern = regexp.MustCompile(`^\.[a-z0-9]{1,5}$`)
)

// AvatarStore persists uploaded avatar images
type AvatarStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Config controls registration behaviour
type Config struct {
	// PublicBaseURL prefixes activation and avatar links, e.g. "http://localhost:8000"
	PublicBaseURL string

	// AvatarMaxBytes is the largest accepted avatar; 0 means DefaultAvatarMaxBytes
	AvatarMaxBytes int64

	// BcryptCost is the password hashing cost; 0 means bcrypt.DefaultCost
	BcryptCost int
}

// RegisterInput is a registration request
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio"`
}

// AvatarUpload is an image submitted with a registration
type AvatarUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service manages user accounts
type Service struct {
	storage storage.Storage
	avatars AvatarStore
	clock   clock.Clock
	random  random.Random
	ids     idgen.Generator
	cfg     Config
	logger  *slog.Logger
}

// New creates a new users Service
func New(
	storage storage.Storage,
	avatars AvatarStore,
	clk clock.Clock,
	rng random.Random,
	ids idgen.Generator,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if cfg.AvatarMaxBytes <= 0 {
		cfg.AvatarMaxBytes = DefaultAvatarMaxBytes
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return &Service{
		storage: storage,
		avatars: avatars,
		clock:   clk,
		random:  rng,
		ids:     ids,
		cfg:     cfg,
		logger:  logger,
	}
}

// Register validates and creates an inactive account, storing the avatar
// first if one was uploaded. Returns *model.ValidationError for bad input
// and model.ErrEmailTaken for a duplicate email.
func (s *Service) Register(ctx context.Context, in RegisterInput, avatar *AvatarUpload) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Email, validation.Required, validation.Match(emailPattern).Error("must be a valid email address")),
		validation.Field(&in.Password, validation.Required, validation.Length(MinPasswordLength, 0)),
	)
	if err != nil {
		return nil, model.NewValidationError(err)
	}
	if avatar != nil {
		if err := s.validateAvatar(avatar); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	user := &model.User{
		ID:              model.UserID(s.ids.UUID()),
		Name:            in.Name,
		Email:           in.Email,
		PasswordHash:    string(hash),
		Bio:             in.Bio,
		ActivationToken: s.random.String(ActivationTokenLength, random.TokenAlphabet),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if avatar != nil {
		user.AvatarKey = avatarKey(user.ID, avatar)
		if err := s.avatars.Put(ctx, user.AvatarKey, avatar.ContentType, avatar.Data); err != nil {
			return nil, err
		}
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		if user.HasAvatar() {
			if derr := s.avatars.Delete(ctx, user.AvatarKey); derr != nil {
				s.logger.Warn("failed to remove orphaned avatar",
					slog.String("key", user.AvatarKey),
					slog.String("error", derr.Error()),
				)
			}
		}
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("user_id", string(user.ID)),
		slog.Bool("avatar", user.HasAvatar()),
	)
	return user, nil
}

func (s *Service) validateAvatar(a *AvatarUpload) error {
	mediaType, _, err := mime.ParseMediaType(a.ContentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return model.NewFieldError("avatar", "must be an image")
	}
	if len(a.Data) == 0 {
		return model.NewFieldError("avatar", "cannot be empty")
	}
	if int64(len(a.Data)) > s.cfg.AvatarMaxBytes {
		return model.NewFieldError("avatar", fmt.Sprintf("must be at most %d bytes", s.cfg.AvatarMaxBytes))
	}
	return nil
}

// avatarKey names the stored object avatars/<userID><ext>, taking the
// extension from the filename or, failing that, the content type
func avatarKey(id model.UserID, a *AvatarUpload) string {
	ext := strings.ToLower(filepath.Ext(a.Filename))
	if !extensionPattern.MatchString(ext) {
		ext = ""
		if exts, err := mime.ExtensionsByType(a.ContentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return "avatars/" + string(id) + ext
}

// Confirm activates the account holding the activation token
func (s *Service) Confirm(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, model.ErrUserNotFound
	}
	user, err := s.storage.GetUserByActivationToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user.Active = true
	user.ActivationToken = ""
	user.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user activated", slog.String("user_id", string(user.ID)))
	return user, nil
}

// Get returns a user by ID
func (s *Service) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.storage.GetUser(ctx, id)
}

// ActivationURL returns the confirmation link for a pending account, or ""
// once the account is active
func (s *Service) ActivationURL(u *model.User) string {
	if !u.PendingActivation() {
		return ""
	}
	return s.cfg.PublicBaseURL + "/api/users/confirm/" + u.ActivationToken
}

// AvatarURL returns the public link to the user's avatar, or "" if none
func (s *Service) AvatarURL(u *model.User) string {
	if !u.HasAvatar() {
		return ""
	}
	return s.cfg.PublicBaseURL + "/uploads/" + u.AvatarKey
}

// AvatarMaxBytes returns the configured avatar size limit
func (s *Service) AvatarMaxBytes() int64 {
	return s.cfg.AvatarMaxBytes
}
