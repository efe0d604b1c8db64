package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr   string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`
	// JWTSecret signs session tokens. Empty means every request is anonymous.
	JWTSecret string `env:"JWT_SECRET"`

	Postgres PostgresConfig
	RSS      RSSConfig
	Kafka    KafkaConfig

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

type PostgresConfig struct {
	URL          string        `env:"DATABASE_URL"`
	Host         string        `env:"DB_HOST" envDefault:"localhost"`
	Port         string        `env:"DB_PORT" envDefault:"5432"`
	User         string        `env:"DB_USER" envDefault:"postgres"`
	Password     string        `env:"DB_PASSWORD"`
	DBName       string        `env:"DB_NAME" envDefault:"dashboard"`
	SSLMode      string        `env:"DB_SSLMODE" envDefault:"require"`
	PingRetries  int           `env:"DB_PING_RETRIES" envDefault:"5"`
	PingInterval time.Duration `env:"DB_PING_INTERVAL" envDefault:"2s"`
}

type RSSConfig struct {
	DefaultURL string        `env:"RSS_DEFAULT_URL" envDefault:"https://hnrss.org/frontpage"`
	Timeout    time.Duration `env:"RSS_TIMEOUT" envDefault:"10s"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"dashboard.changes"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Postgres.PingRetries < 1 {
		cfg.Postgres.PingRetries = 1
	}
	return cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise a URL assembled from the parts.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Host + ":" + p.Port,
		Path:     "/" + p.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}

// AuthEnabled reports whether session tokens can be verified at all.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}
