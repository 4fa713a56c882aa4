// Package config loads process settings from flags, the environment and an
// optional .env file.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devSessionSecret = "change_this"
)

// ErrHelp is returned by Load when --help was requested.
var ErrHelp = errors.New("help requested")

type Config struct {
	Environment string `long:"environment" env:"APP_ENV" default:"development" description:"development or production"`
	Port        string `long:"port" env:"PORT" default:"3000" description:"HTTP listen port"`
	LogLevel    string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"debug, info, warn or error"`

	DBDriver string `long:"db-driver" env:"DB_DRIVER" default:"sqlite3" description:"sqlite3 or postgres"`
	DBDSN    string `long:"db-dsn" env:"DB_DSN" default:"./output/fitness-buddy.db" description:"database file or connection string"`

	SessionSecret string `long:"session-secret" env:"SESSION_SECRET" description:"key material for session cookies"`
	SessionCookie string `long:"session-cookie" env:"SESSION_COOKIE" default:"fitness_buddy_session" description:"session cookie name"`

	LLMBackend       string        `long:"llm-backend" env:"LLM_BACKEND" default:"openai" description:"openai or local"`
	CompletionsURL   string        `long:"completions-api-url" env:"COMPLETIONS_API_URL" default:"https://router.huggingface.co/v1" description:"OpenAI compatible API base URL"`
	CompletionsKey   string        `long:"completions-api-key" env:"COMPLETIONS_API_KEY" description:"API key, falls back to HF_TOKEN"`
	CompletionsModel string        `long:"completions-model" env:"COMPLETIONS_MODEL" default:"Qwen/Qwen2.5-1.5B-Instruct:featherless-ai" description:"chat model"`
	LocalGenerateURL string        `long:"local-generate-url" env:"LOCAL_GENERATE_URL" default:"http://host.docker.internal:5005/generate" description:"local generate endpoint"`
	LLMTimeout       time.Duration `long:"llm-timeout" env:"LLM_TIMEOUT" default:"60s" description:"timeout for one model call"`

	AllowedOrigins []string `long:"allowed-origin" env:"ALLOWED_ORIGINS" env-delim:"," default:"*" description:"CORS allowed origins"`

	devSecret bool
}

// Load reads .env if present and parses args over the environment.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.ShortDescription = "Fitness Buddy API"
	if _, err := parser.ParseArgs(args); err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			return nil, ErrHelp
		}
		return nil, errors.Wrap(err, "parse flags")
	}

	if cfg.CompletionsKey == "" {
		cfg.CompletionsKey = os.Getenv("HF_TOKEN")
	}
	cfg.AllowedOrigins = lo.Compact(lo.Map(cfg.AllowedOrigins, func(o string, _ int) string {
		return strings.TrimSpace(o)
	}))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks option values and fills the development session secret.
func (c *Config) Validate() error {
	if !lo.Contains([]string{EnvDevelopment, EnvProduction}, c.Environment) {
		return errors.Errorf("unknown environment %q", c.Environment)
	}
	if !lo.Contains([]string{"sqlite3", "postgres"}, c.DBDriver) {
		return errors.Errorf("unsupported database driver %q", c.DBDriver)
	}
	if !lo.Contains([]string{"openai", "local"}, c.LLMBackend) {
		return errors.Errorf("unknown llm backend %q", c.LLMBackend)
	}
	if c.LLMTimeout <= 0 {
		return errors.New("llm timeout must be positive")
	}
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.SessionSecret == "" {
		if c.Environment == EnvProduction {
			return errors.New("SESSION_SECRET is required in production")
		}
		c.SessionSecret = devSessionSecret
		c.devSecret = true
	}
	return nil
}

// UsingDevSecret reports whether the built-in development session secret is
// in use.
func (c *Config) UsingDevSecret() bool {
	return c.devSecret
}

// Production reports whether the process runs in production mode.
func (c *Config) Production() bool {
	return c.Environment == EnvProduction
}
