// Package config resolves the runtime configuration through an ordered
// chain: hardcoded defaults, then environment variables, then an optional
// explicit YAML file. Explicit config wins over env, env over defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultSecretKey is the hardcoded signing fallback inherited from the
// first deployment. Known weakness: anyone with this repository can forge
// tokens for an instance still running on it, so main logs a warning when
// it is in use. Set SECRET_KEY in production.
const DefaultSecretKey = "a30e2cc67c8b5cfcc2ab1fc0d8da5ad50e1ec8a84f0a2e28bfe50b237de3cce5"

type Config struct {
	// HTTP server
	Port string `envconfig:"PORT" yaml:"port"`

	// Session tokens
	SecretKey string        `envconfig:"SECRET_KEY" yaml:"secret_key"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" yaml:"token_ttl"`

	// Credential store
	BcryptCost       int    `envconfig:"BCRYPT_COST" yaml:"bcrypt_cost"`
	UsersFile        string `envconfig:"USERS_FILE" yaml:"users_file"`
	SuperUser        string `envconfig:"SUPER_USER" yaml:"super_user"`
	FallbackLogin    string `envconfig:"FALLBACK_LOGIN" yaml:"fallback_login"`
	FallbackName     string `envconfig:"FALLBACK_NAME" yaml:"fallback_name"`
	FallbackPassword string `envconfig:"FALLBACK_PASSWORD" yaml:"fallback_password"`

	// Sheet sources
	DataBackend        string            `envconfig:"DATA_BACKEND" yaml:"data_backend"`
	MainSpreadsheetID  string            `envconfig:"MAIN_SPREADSHEET_ID" yaml:"main_spreadsheet_id"`
	SalesSpreadsheetID string            `envconfig:"VENDAS_SPREADSHEET_ID" yaml:"vendas_spreadsheet_id"`
	Worksheets         map[string]string `envconfig:"WORKSHEETS" yaml:"worksheets"`

	// Fetch hardening
	FetchAttempts int           `envconfig:"FETCH_ATTEMPTS" yaml:"fetch_attempts"`
	FetchBackoff  time.Duration `envconfig:"FETCH_BACKOFF" yaml:"fetch_backoff"`
	FetchTimeout  time.Duration `envconfig:"FETCH_TIMEOUT" yaml:"fetch_timeout"`
}

func defaults() *Config {
	return &Config{
		Port:      "8000",
		SecretKey: DefaultSecretKey,
		TokenTTL:  24 * time.Hour,

		BcryptCost:       10,
		SuperUser:        "rafael@remape.com",
		FallbackLogin:    "rafael@remape.com",
		FallbackName:     "Rafael",
		FallbackPassword: "Guitarra3@!",

		DataBackend: "memory",
		Worksheets: map[string]string{
			"VISITAS":      "VISITAS",
			"PROSPECÇÃO":   "PROSPECÇÃO",
			"DESPESAS":     "DESPESAS",
			"QUESTIONÁRIO": "QUESTIONÁRIO",
			// Empty means the first worksheet of the sales spreadsheet.
			"VENDAS": "",
		},

		FetchAttempts: 3,
		FetchBackoff:  500 * time.Millisecond,
		FetchTimeout:  30 * time.Second,
	}
}

// Load resolves the configuration chain. The optional file is taken from
// CONFIG_FILE and applied last, so its keys override the environment.
func Load() (*Config, error) {
	cfg := defaults()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SecretKey == "" {
		problems = append(problems, "secret key cannot be empty")
	}
	if c.TokenTTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid token TTL %v: must be positive", c.TokenTTL))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		problems = append(problems, fmt.Sprintf("invalid bcrypt cost %d: must be between 4 and 31", c.BcryptCost))
	}
	if c.FallbackLogin == "" || c.FallbackPassword == "" {
		problems = append(problems, "fallback identity needs a login and a password")
	}

	switch c.DataBackend {
	case "memory":
	case "sheets":
		if c.MainSpreadsheetID == "" {
			problems = append(problems, "main spreadsheet id is required for the sheets backend")
		}
		if c.SalesSpreadsheetID == "" {
			problems = append(problems, "vendas spreadsheet id is required for the sheets backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend %q: must be one of [memory sheets]", c.DataBackend))
	}

	if c.FetchAttempts < 1 {
		problems = append(problems, fmt.Sprintf("invalid fetch attempts %d: must be at least 1", c.FetchAttempts))
	}
	if c.FetchBackoff <= 0 {
		problems = append(problems, fmt.Sprintf("invalid fetch backoff %v: must be positive", c.FetchBackoff))
	}
	if c.FetchTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid fetch timeout %v: must be positive", c.FetchTimeout))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// UsingDefaultSecret reports whether tokens are being signed with the
// hardcoded fallback key.
func (c *Config) UsingDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// Worksheet returns the configured worksheet title for a sheet name,
// falling back to the name itself when unconfigured.
func (c *Config) Worksheet(name string) string {
	if ws, ok := c.Worksheets[name]; ok {
		return ws
	}
	return name
}
