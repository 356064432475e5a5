package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := *defaults()
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErr  bool
		contains string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:     "non-numeric port",
			mutate:   func(c *Config) { c.Port = "abc" },
			wantErr:  true,
			contains: `invalid port "abc"`,
		},
		{
			name:     "port out of range",
			mutate:   func(c *Config) { c.Port = "70000" },
			wantErr:  true,
			contains: "invalid port 70000",
		},
		{
			name:     "empty secret",
			mutate:   func(c *Config) { c.SecretKey = "" },
			wantErr:  true,
			contains: "secret key cannot be empty",
		},
		{
			name:     "non-positive token ttl",
			mutate:   func(c *Config) { c.TokenTTL = 0 },
			wantErr:  true,
			contains: "invalid token TTL",
		},
		{
			name:     "bcrypt cost out of range",
			mutate:   func(c *Config) { c.BcryptCost = 2 },
			wantErr:  true,
			contains: "invalid bcrypt cost 2",
		},
		{
			name:     "missing fallback password",
			mutate:   func(c *Config) { c.FallbackPassword = "" },
			wantErr:  true,
			contains: "fallback identity",
		},
		{
			name:     "unknown backend",
			mutate:   func(c *Config) { c.DataBackend = "postgres" },
			wantErr:  true,
			contains: `invalid data backend "postgres"`,
		},
		{
			name: "sheets backend without spreadsheet ids",
			mutate: func(c *Config) {
				c.DataBackend = "sheets"
				c.MainSpreadsheetID = ""
				c.SalesSpreadsheetID = ""
			},
			wantErr:  true,
			contains: "main spreadsheet id is required",
		},
		{
			name: "sheets backend with spreadsheet ids",
			mutate: func(c *Config) {
				c.DataBackend = "sheets"
				c.MainSpreadsheetID = "main-id"
				c.SalesSpreadsheetID = "sales-id"
			},
		},
		{
			name:     "fetch attempts below one",
			mutate:   func(c *Config) { c.FetchAttempts = 0 },
			wantErr:  true,
			contains: "invalid fetch attempts 0",
		},
		{
			name:     "non-positive fetch backoff",
			mutate:   func(c *Config) { c.FetchBackoff = -time.Second },
			wantErr:  true,
			contains: "invalid fetch backoff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !strings.Contains(err.Error(), tt.contains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.contains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestConfig_Validate_CollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.SecretKey = ""
	cfg.TokenTTL = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	for _, want := range []string{"invalid port", "secret key", "token TTL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err.Error(), want)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("CONFIG_FILE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if !cfg.UsingDefaultSecret() {
		t.Error("expected default secret to be in use")
	}
	if got := cfg.Worksheet("DESPESAS"); got != "DESPESAS" {
		t.Errorf("Worksheet(DESPESAS) = %q", got)
	}
	if got := cfg.Worksheet("VENDAS"); got != "" {
		t.Errorf("Worksheet(VENDAS) = %q, want empty", got)
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	os.Unsetenv("CONFIG_FILE")
	t.Setenv("PORT", "9001")
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9001" {
		t.Errorf("Port = %q, want 9001", cfg.Port)
	}
	if cfg.SecretKey != "env-secret" {
		t.Errorf("SecretKey = %q, want env-secret", cfg.SecretKey)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v, want 1h", cfg.TokenTTL)
	}
	if cfg.UsingDefaultSecret() {
		t.Error("expected default secret not to be in use")
	}
}

func TestLoad_FileOverridesEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "remape.yaml")
	body := "port: \"9002\"\nsuper_user: chief@remape.com\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PORT", "9001")
	t.Setenv("SUPER_USER", "env@remape.com")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9002" {
		t.Errorf("Port = %q, want file value 9002", cfg.Port)
	}
	if cfg.SuperUser != "chief@remape.com" {
		t.Errorf("SuperUser = %q, want file value", cfg.SuperUser)
	}
	// Keys absent from the file keep their env values.
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want default 24h", cfg.TokenTTL)
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
