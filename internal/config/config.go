package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverBadger   = "badger"
)

var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres store driver")

// Config centraliza la configuración del servidor.
type Config struct {
	HTTPPort         string        `env:"HTTP_PORT" envDefault:"8080"`
	StoreDriver      string        `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	BadgerPath       string        `env:"BADGER_PATH" envDefault:"./data/board"`
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	AllowedOrigins   []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:8080"`
	RateLimitMax     int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindow  time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitMessage string        `env:"RATE_LIMIT_MESSAGE" envDefault:"Too many requests. Please try again later."`
	StaticDir        string        `env:"STATIC_DIR" envDefault:"public"`
	TrustedProxies   []string      `env:"TRUSTED_PROXIES" envSeparator:","`
}

// ClientConfig configura el cliente de terminal.
type ClientConfig struct {
	APIURL      string        `env:"BOARD_API_URL" envDefault:"http://localhost:8080"`
	NotifyDelay time.Duration `env:"BOARD_NOTIFY_DELAY" envDefault:"3s"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, ErrMissingDatabaseURL
		}
	case StoreDriverBadger:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	cfg.AllowedOrigins = compact(cfg.AllowedOrigins)
	cfg.TrustedProxies = compact(cfg.TrustedProxies)
	return &cfg, nil
}

// LoadClientConfig carga la configuración del cliente de terminal.
func LoadClientConfig() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
