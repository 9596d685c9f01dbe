package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Confirmation modes for the self-destruct protocol.
const (
	// ConfirmationFormat accepts any well-formed code in phase 2.
	ConfirmationFormat = "format"
	// ConfirmationVerified stores the phase 1 challenge and requires it back.
	ConfirmationVerified = "verified"
)

const devJWTSecret = "development-secret"

// Config holds application configuration loaded from environment variables or config files.
type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV" validate:"required,oneof=development staging production test"`
	HTTPAddr        string        `mapstructure:"HTTP_ADDR" validate:"required,hostname_port"`
	BaseURL         string        `mapstructure:"BASE_URL" validate:"required,url"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	DatabaseURL string `mapstructure:"DATABASE_URL" validate:"required"`

	JWTSecret  string        `mapstructure:"JWT_SECRET" validate:"required"`
	JWTIssuer  string        `mapstructure:"JWT_ISSUER" validate:"required"`
	TokenTTL   time.Duration `mapstructure:"TOKEN_TTL" validate:"gt=0"`
	BcryptCost int           `mapstructure:"BCRYPT_COST" validate:"gte=4,lte=31"`

	RedisAddr     string `mapstructure:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	ConfirmationMode string        `mapstructure:"CONFIRMATION_MODE" validate:"required,oneof=format verified"`
	ChallengeTTL     time.Duration `mapstructure:"CHALLENGE_TTL" validate:"gt=0"`

	AsynqConcurrency int `mapstructure:"ASYNQ_CONCURRENCY" validate:"gte=1,lte=1000"`

	GoMaxProcs int `mapstructure:"GOMAXPROCS" validate:"gte=0,lte=4096"`
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

var (
	validate = validator.New(validator.WithRequiredStructEnabled())

	durationKeys = []string{"SHUTDOWN_TIMEOUT", "TOKEN_TTL", "CHALLENGE_TTL"}
)

// Load initializes configuration using Viper. It loads from .env if present,
// applies defaults, binds env vars, and validates the result.
func Load() (*Config, error) {
	// Load .env if present (non-fatal)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", "0.0.0.0:3003")
	v.SetDefault("BASE_URL", "http://localhost:3003")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("JWT_ISSUER", "gadget-api")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("CONFIRMATION_MODE", ConfirmationFormat)
	v.SetDefault("CHALLENGE_TTL", "5m")
	v.SetDefault("ASYNQ_CONCURRENCY", 10)
	v.SetDefault("GOMAXPROCS", 0)

	// Optional config file
	_ = v.ReadInConfig()

	keys := []string{
		"APP_ENV",
		"HTTP_ADDR",
		"BASE_URL",
		"SHUTDOWN_TIMEOUT",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"DATABASE_URL",
		"JWT_SECRET",
		"JWT_ISSUER",
		"TOKEN_TTL",
		"BCRYPT_COST",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"CONFIRMATION_MODE",
		"CHALLENGE_TTL",
		"ASYNQ_CONCURRENCY",
		"GOMAXPROCS",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	// Durations may come in as plain strings from env or yaml.
	for _, key := range durationKeys {
		s := v.GetString(key)
		if s == "" {
			continue
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		switch key {
		case "SHUTDOWN_TIMEOUT":
			c.ShutdownTimeout = d
		case "TOKEN_TTL":
			c.TokenTTL = d
		case "CHALLENGE_TTL":
			c.ChallengeTTL = d
		}
	}

	// Production must bring its own signing secret.
	if c.JWTSecret == "" && c.AppEnv != "production" {
		c.JWTSecret = devJWTSecret
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if c.GoMaxProcs > 0 {
		runtime.GOMAXPROCS(c.GoMaxProcs)
	}

	return &c, nil
}

// MustLoad loads configuration or exits the process on failure.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}

