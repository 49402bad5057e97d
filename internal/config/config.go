// Package config loads the process configuration once at startup.
// Everything downstream receives an explicit *Config instead of reading
// the environment ad hoc.
package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	Env  string `env:"APP_ENV,default=development"`
	Host string `env:"HOST,default=0.0.0.0"`
	Port string `env:"PORT,default=8080"`

	DatabaseURL string `env:"DATABASE_URL,required"`

	JWT struct {
		Secret   string        `env:"JWT_SECRET,required"`
		Issuer   string        `env:"JWT_ISSUER,default=evolution-gadget"`
		Audience string        `env:"JWT_AUDIENCE,default=evolution-gadget-users"`
		TTL      time.Duration `env:"JWT_EXPIRES_IN,default=168h"`
	}

	RateLimit struct {
		PerSecond int `env:"RATE_LIMIT_PER_SECOND,default=20"`
		Burst     int `env:"RATE_LIMIT_BURST,default=40"`
		// Tighter limit shared by register/login.
		AuthPerMinute int `env:"AUTH_RATE_LIMIT_PER_MINUTE,default=10"`
	}

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=30s"`

	Log struct {
		Level  string `env:"LOG_LEVEL,default=info"`
		Pretty bool   `env:"LOG_PRETTY,default=false"`
	}
}

// Load reads .env if present, then decodes the environment. A missing
// JWT secret or database URL is a startup failure, never a per-request
// error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
