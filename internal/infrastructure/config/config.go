package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// BaseURL is the public origin embedded in activation and reset links.
	BaseURL string `env:"BASE_URL, default=http://localhost:8080"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
	// AccessTokenTTL bounds the life of a bearer token; stateless tokens have
	// no revocation, so this stays short.
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL, default=30m"`
	// MailTokenTTL bounds activation and password-reset links.
	MailTokenTTL time.Duration `env:"MAIL_TOKEN_TTL, default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=civic_reports"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Enabled bool   `env:"SMTP_ENABLED, default=false"`
	Host    string `env:"SMTP_HOST,    default=localhost"`
	Port    int    `env:"SMTP_PORT,    default=587"`
	User    string `env:"SMTP_USER"`
	Pass    string `env:"SMTP_PASS"`
	From    string `env:"SMTP_FROM,    default=no-reply@civicmap.local"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
