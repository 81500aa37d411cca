// Package config loads runtime configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Client configures the gatorpay client binary.
type Client struct {
	// APIBaseURL is the backend root, including the /api prefix.
	APIBaseURL string `env:"GATORPAY_API_URL" envDefault:"http://localhost:8080/api"`
	// LogLevel is a slog level name: debug, info, warn, error.
	LogLevel string `env:"GATORPAY_LOG_LEVEL" envDefault:"info"`
	// TokenFile overrides the token location. Empty selects the
	// per-user default under the OS config directory.
	TokenFile string `env:"GATORPAY_TOKEN_FILE"`
	// HTTPTimeout bounds every backend request.
	HTTPTimeout time.Duration `env:"GATORPAY_HTTP_TIMEOUT" envDefault:"15s"`
}

// LoadClient reads client configuration from the environment.
func LoadClient() (Client, error) {
	var cfg Client
	if err := env.Parse(&cfg); err != nil {
		return Client{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	return cfg, nil
}

// Server configures the gatorpayd development backend.
type Server struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret      string        `env:"JWT_SECRET" envDefault:"devsecret"`
	ShutdownPeriod time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadServer reads development backend configuration from the environment.
func LoadServer() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Server) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}
