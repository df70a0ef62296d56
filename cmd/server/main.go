package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/staffapi/internal/api"
	"github.com/mcoot/staffapi/internal/config"
	"github.com/mcoot/staffapi/internal/factory"
	sharedmw "github.com/mcoot/staffapi/internal/middleware"
	"github.com/mcoot/staffapi/internal/services/auth"
	"github.com/mcoot/staffapi/internal/services/users"
	redisstorage "github.com/mcoot/staffapi/internal/storage/redis"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, *configPath, os.Stdout)
	stop()
	if err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the server fails. Every resource it
// opens is released before it returns.
func run(ctx context.Context, configPath string, stdout io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := cfg.Log.NewLogger(stdout)
	slog.SetDefault(logger)

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, signing tokens with the development secret",
			slog.String("secret", auth.DefaultSecret))
	}

	// Build factory config
	factoryCfg := factory.Config{
		Logger:          logger,
		StorageType:     cfg.Storage.Type,
		AvatarBucketURL: cfg.Avatars.BucketURL,
		JWTSecret:       cfg.Auth.JWTSecret,
		EmployeesPath:   cfg.EmployeesPath,
		Users: users.Config{
			PublicBaseURL:  cfg.Server.PublicBaseURL,
			AvatarMaxBytes: cfg.Avatars.MaxBytes,
			BcryptCost:     cfg.Auth.BcryptCost,
		},
	}
	if cfg.Storage.Type == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close application", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		AuthService:  app.AuthService,
		UsersService: app.UsersService,
		PostsService: app.PostsService,
		Directory:    app.Directory,
		Avatars:      app.Avatars,
		AuthRateLimit: sharedmw.RateLimitConfig{
			Requests: cfg.Auth.RateLimit.Requests,
			Window:   cfg.Auth.RateLimit.Window,
			Burst:    cfg.Auth.RateLimit.Burst,

			TrustForwarded: cfg.Auth.RateLimit.TrustForwarded,
		},
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Server.Host
	serverConfig.Port = cfg.Server.Port
	serverConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	server := api.NewServer(router, serverConfig, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
		slog.Int("employees", app.Directory.Len()),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
