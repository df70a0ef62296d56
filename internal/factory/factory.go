package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/mcoot/staffapi/internal/dependencies/clock"
	"github.com/mcoot/staffapi/internal/dependencies/idgen"
	"github.com/mcoot/staffapi/internal/dependencies/random"
	"github.com/mcoot/staffapi/internal/services/auth"
	"github.com/mcoot/staffapi/internal/services/directory"
	"github.com/mcoot/staffapi/internal/services/posts"
	"github.com/mcoot/staffapi/internal/services/users"
	"github.com/mcoot/staffapi/internal/storage"
	"github.com/mcoot/staffapi/internal/storage/avatars"
	"github.com/mcoot/staffapi/internal/storage/memory"
	redisstorage "github.com/mcoot/staffapi/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// DefaultAvatarBucketURL keeps avatars in process memory
const DefaultAvatarBucketURL = "mem://"

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	Avatars *avatars.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	IDs    idgen.Generator

	// Services
	Directory    *directory.Directory
	AuthService  *auth.Service
	UsersService *users.Service
	PostsService *posts.Service

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// AvatarBucketURL is a gocloud.dev blob URL; defaults to DefaultAvatarBucketURL
	AvatarBucketURL string
	// JWTSecret signs bearer tokens; empty falls back to auth.DefaultSecret
	JWTSecret string
	// Users configures registration (public links, avatar limit, bcrypt cost)
	Users users.Config
	// EmployeesPath is the employee seed file (optional). A missing file
	// leaves the directory empty; an invalid one fails New.
	EmployeesPath string
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	var closers []io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	bucketURL := cfg.AvatarBucketURL
	if bucketURL == "" {
		bucketURL = DefaultAvatarBucketURL
	}
	avatarStore, err := avatars.Open(ctx, bucketURL)
	if err != nil {
		closeAll(closers)
		return nil, err
	}
	closers = append(closers, avatarStore)

	app := newWithDependencies(store, avatarStore, clock.New(), random.New(), idgen.New(), cfg.JWTSecret, cfg.Users, logger)
	app.closers = closers

	if cfg.EmployeesPath != "" {
		if err := loadEmployees(app.Directory, cfg.EmployeesPath, logger); err != nil {
			_ = app.Close()
			return nil, err
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	avatarStore *avatars.Store,
	clk clock.Clock,
	rnd random.Random,
	ids idgen.Generator,
	jwtSecret string,
	usersCfg users.Config,
	logger *slog.Logger,
) *App {
	tokens := auth.NewTokenService(jwtSecret, clk)

	return &App{
		Storage:      store,
		Avatars:      avatarStore,
		Clock:        clk,
		Random:       rnd,
		IDs:          ids,
		Directory:    directory.New(logger),
		AuthService:  auth.New(store, tokens, logger),
		UsersService: users.New(store, avatarStore, clk, rnd, ids, usersCfg, logger),
		PostsService: posts.New(store, clk, ids, logger),
	}
}

func loadEmployees(dir *directory.Directory, path string, logger *slog.Logger) error {
	err := dir.LoadFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("employee seed file not found, starting with an empty directory",
			slog.String("path", path),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load employees: %w", err)
	}
	return nil
}

// Close releases the storage connection and avatar bucket
func (a *App) Close() error {
	return closeAll(a.closers)
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
