package config

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/actionkit/internal/encoding"
	"github.com/GriffinCanCode/actionkit/internal/logging"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable
const EnvPrefix = "ACTIONKIT"

// Env is the environment-provided configuration.
type Env struct {
	BaseURL        string        `envconfig:"BASE_URL"`
	Token          string        `envconfig:"TOKEN"`
	TokenType      string        `envconfig:"TOKEN_TYPE" default:"Bearer"`
	ConnectTimeout time.Duration `envconfig:"CONNECT_TIMEOUT" default:"10s"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"0s"`
	ListFormat     string        `envconfig:"LIST_FORMAT" default:"multi"`
	RateLimitRPS   float64       `envconfig:"RATE_LIMIT_RPS" default:"0"`
	RateLimitBurst int           `envconfig:"RATE_LIMIT_BURST" default:"1"`
	UserAgent      string        `envconfig:"USER_AGENT"`
	Cookies        bool          `envconfig:"COOKIES" default:"false"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogDev         bool          `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &env, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Env {
	env, err := Load()
	if err != nil {
		return Default()
	}
	return env
}

// Default returns default configuration.
func Default() *Env {
	return &Env{
		TokenType:      DefaultTokenType,
		ConnectTimeout: 10 * time.Second,
		ListFormat:     string(encoding.ListMulti),
		RateLimitBurst: 1,
		LogLevel:       "info",
	}
}

// Settings converts the environment into a settings snapshot.
func (e *Env) Settings() (*Settings, error) {
	format, err := encoding.ParseListFormat(e.ListFormat)
	if err != nil {
		return nil, err
	}
	if e.ConnectTimeout < 0 || e.RequestTimeout < 0 {
		return nil, fmt.Errorf("timeouts must not be negative")
	}

	s := Defaults()
	s.BaseURL = Static(e.BaseURL)
	s.Token = Static(e.Token)
	if e.TokenType != "" {
		s.TokenType = e.TokenType
	}
	s.ConnectTimeout = e.ConnectTimeout
	s.RequestTimeout = e.RequestTimeout
	s.ListFormat = format
	s.UserAgent = e.UserAgent
	s.Cookies = e.Cookies
	s.RateLimit = e.RateLimitRPS
	s.RateBurst = e.RateLimitBurst
	return s, nil
}

// LogConfig returns the logger configuration.
func (e *Env) LogConfig() logging.Config {
	if e.LogDev {
		cfg := logging.DevelopmentConfig()
		if e.LogLevel != "" {
			cfg.Level = e.LogLevel
		}
		return cfg
	}
	cfg := logging.DefaultConfig()
	if e.LogLevel != "" {
		cfg.Level = e.LogLevel
	}
	return cfg
}
