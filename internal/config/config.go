// Package config loads server settings from defaults, an optional YAML file
// and the environment, in that order of precedence.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	// PathEnv names a YAML file to load instead of DefaultPath
	PathEnv = "STAFFAPI_CONFIG"
	// DefaultPath is read when present and PathEnv is unset
	DefaultPath = "config.yaml"
)

// envKeys maps recognised environment variables to config keys. Anything
// else in the environment is ignored.
var envKeys = map[string]string{
	"HOST":                       "server.host",
	"PORT":                       "server.port",
	"PUBLIC_BASE_URL":            "server.public_base_url",
	"SHUTDOWN_TIMEOUT":           "server.shutdown_timeout",
	"JWT_SECRET":                 "auth.jwt_secret",
	"BCRYPT_COST":                "auth.bcrypt_cost",
	"RATE_LIMIT_REQUESTS":        "auth.rate_limit.requests",
	"RATE_LIMIT_WINDOW":          "auth.rate_limit.window",
	"RATE_LIMIT_BURST":           "auth.rate_limit.burst",
	"RATE_LIMIT_TRUST_FORWARDED": "auth.rate_limit.trust_forwarded",
	"STORAGE_TYPE":               "storage.type",
	"REDIS_URL":                  "storage.redis_url",
	"EMPLOYEES_PATH":             "employees_path",
	"AVATAR_BUCKET_URL":          "avatars.bucket_url",
	"AVATAR_MAX_BYTES":           "avatars.max_bytes",
	"LOG_LEVEL":                  "log.level",
	"LOG_FORMAT":                 "log.format",
}

type Config struct {
	Server        Server  `koanf:"server"`
	Auth          Auth    `koanf:"auth"`
	Storage       Storage `koanf:"storage"`
	Avatars       Avatars `koanf:"avatars"`
	Log           Log     `koanf:"log"`
	EmployeesPath string  `koanf:"employees_path"`
}

type Server struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	// PublicBaseURL prefixes activation and avatar links. Derived from the
	// port when unset.
	PublicBaseURL   string        `koanf:"public_base_url"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type Auth struct {
	JWTSecret  string    `koanf:"jwt_secret"`
	BcryptCost int       `koanf:"bcrypt_cost"`
	RateLimit  RateLimit `koanf:"rate_limit"`
}

// RateLimit bounds login and registration attempts per client IP.
// Requests <= 0 turns limiting off.
type RateLimit struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`

	// TrustForwarded keys clients by X-Forwarded-For instead of the
	// connection address
	TrustForwarded bool `koanf:"trust_forwarded"`
}

type Storage struct {
	Type     string `koanf:"type"`
	RedisURL string `koanf:"redis_url"`
}

type Avatars struct {
	BucketURL string `koanf:"bucket_url"`
	MaxBytes  int64  `koanf:"max_bytes"`
}

type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the settings used when nothing overrides them
func Default() Config {
	return Config{
		Server: Server{
			Port:            8000,
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: Auth{
			BcryptCost: 10,
			RateLimit: RateLimit{
				Requests: 10,
				Window:   time.Minute,
			},
		},
		Storage: Storage{
			Type: "memory",
		},
		Avatars: Avatars{
			BucketURL: "file://./uploads?create_dir=true",
			MaxBytes:  2 << 20,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
		EmployeesPath: "data/employees.json",
	}
}

// Load reads configuration. path may be empty, in which case PathEnv and
// then DefaultPath are tried; a missing default file is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(PathEnv)
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath
	}

	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil || explicit {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			mapped, ok := envKeys[key]
			if !ok || value == "" {
				return "", nil
			}
			return mapped, value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables")
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if cfg.Server.PublicBaseURL == "" {
		cfg.Server.PublicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	cfg.Server.PublicBaseURL = strings.TrimRight(cfg.Server.PublicBaseURL, "/")
	cfg.Storage.Type = strings.ToLower(cfg.Storage.Type)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	var redisRules []validation.Rule
	if c.Storage.Type == "redis" {
		redisRules = append(redisRules, validation.Required)
	}

	return validation.Errors{
		"server.port":            validation.Validate(c.Server.Port, validation.Min(0), validation.Max(65535)),
		"server.public_base_url": validation.Validate(c.Server.PublicBaseURL, validation.Required, is.URL),
		"auth.bcrypt_cost":       validation.Validate(c.Auth.BcryptCost, validation.Min(4), validation.Max(31)),
		"auth.rate_limit.window": validation.Validate(c.Auth.RateLimit, validation.By(validateRateLimit)),
		"storage.type":           validation.Validate(c.Storage.Type, validation.In("memory", "redis")),
		"storage.redis_url":      validation.Validate(c.Storage.RedisURL, redisRules...),
		"avatars.bucket_url":     validation.Validate(c.Avatars.BucketURL, validation.Required),
		"avatars.max_bytes":      validation.Validate(c.Avatars.MaxBytes, validation.Min(int64(1))),
		"log.level":              validation.Validate(c.Log.Level, validation.In("debug", "info", "warn", "error")),
		"log.format":             validation.Validate(c.Log.Format, validation.In("json", "text")),
	}.Filter()
}

func validateRateLimit(value any) error {
	rl, _ := value.(RateLimit)
	if rl.Requests > 0 && rl.Window <= 0 {
		return errors.New("must be positive when requests are limited")
	}
	return nil
}

// Addr is the listen address
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// NewLogger builds the process logger described by l
func (l Log) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if l.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
