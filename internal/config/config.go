// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-change-me"

// Config holds all configuration.
type Config struct {
	Env  string
	Port int

	DBPath string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	LogLevel  string
	LogFormat string

	RateLimitRPS   float64
	RateLimitBurst int

	EventDefaultTTL     time.Duration
	ShutdownGracePeriod time.Duration
}

// IsDev reports whether the server runs in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development"
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads configuration from environment variables. Variables in a .env
// file in the working directory are loaded first without overriding the
// environment; the file is optional.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	var p parser
	cfg := &Config{
		Env:                 strings.ToLower(getEnv("ENV", "dev")),
		Port:                p.int("PORT", 8080),
		DBPath:              getEnv("DB_PATH", "./data/splitbill.db"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTTTL:              p.duration("JWT_TTL", 24*time.Hour),
		BcryptCost:          p.int("BCRYPT_COST", 10),
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
		RateLimitRPS:        p.float("RATE_LIMIT_RPS", 20),
		RateLimitBurst:      p.int("RATE_LIMIT_BURST", 40),
		EventDefaultTTL:     p.duration("EVENT_DEFAULT_TTL", 24*time.Hour),
		ShutdownGracePeriod: p.duration("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
	if p.err != nil {
		return nil, p.err
	}

	defaultFormat := "json"
	if cfg.IsDev() {
		defaultFormat = "text"
	}
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", defaultFormat))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if !c.IsDev() {
			return errors.New("JWT_SECRET is required outside dev")
		}
		c.JWTSecret = devJWTSecret
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parser reads typed variables and keeps the first malformed one.
type parser struct {
	err error
}

func (p *parser) lookup(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != "" && p.err == nil
}

func (p *parser) fail(key, value string, err error) {
	p.err = fmt.Errorf("invalid %s=%q: %w", key, value, err)
}

func (p *parser) int(key string, fallback int) int {
	value, ok := p.lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, err)
		return fallback
	}
	return n
}

func (p *parser) float(key string, fallback float64) float64 {
	value, ok := p.lookup(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.fail(key, value, err)
		return fallback
	}
	return f
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	value, ok := p.lookup(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.fail(key, value, err)
		return fallback
	}
	return d
}
