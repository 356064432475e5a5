package auth

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Provider is one ordered source of credentials. Later providers overwrite
// earlier ones for the same login.
type Provider interface {
	Name() string
	Credentials() ([]Credential, error)
}

// Store is the in-memory identity map, read-only after NewStore returns.
type Store struct {
	identities map[string]Identity
}

// NewStore builds the credential store from the ordered providers.
// Malformed entries and failing providers are logged and skipped; startup
// never aborts over a bad credential line. Passwords are hashed with
// bcrypt at the given cost and the cleartext is dropped. If the merge ends
// without the fallback identity, it is force-inserted so the system always
// has one reachable account.
func NewStore(cost int, fallback Credential, providers ...Provider) *Store {
	s := &Store{identities: make(map[string]Identity)}
	for _, p := range providers {
		creds, err := p.Credentials()
		if err != nil {
			slog.Warn("Credential source failed, skipping", "source", p.Name(), "error", err)
			continue
		}
		for _, c := range creds {
			if err := s.add(c, cost); err != nil {
				slog.Warn("Skipping malformed credential entry", "source", p.Name(), "login", c.Login, "error", err)
				continue
			}
			slog.Info("Loaded identity", "source", p.Name(), "login", c.Login, "name", c.DisplayName)
		}
	}
	if _, ok := s.identities[fallback.Login]; !ok {
		if err := s.add(fallback, cost); err != nil {
			slog.Error("Fallback identity rejected", "login", fallback.Login, "error", err)
		} else {
			slog.Info("Inserted fallback identity", "login", fallback.Login)
		}
	}
	return s
}

func (s *Store) add(c Credential, cost int) error {
	login := strings.TrimSpace(c.Login)
	name := strings.TrimSpace(c.DisplayName)
	if login == "" {
		return fmt.Errorf("empty login")
	}
	if c.Password == "" {
		return fmt.Errorf("empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	s.identities[login] = Identity{
		Login:        login,
		DisplayName:  name,
		PasswordHash: string(hash),
		Active:       true,
	}
	return nil
}

// Lookup resolves a login to its identity.
func (s *Store) Lookup(login string) (Identity, bool) {
	id, ok := s.identities[login]
	return id, ok
}

// Count returns the number of loaded identities.
func (s *Store) Count() int {
	return len(s.identities)
}

// EnvProvider reads credentials from environment variables with a given
// prefix (USER_ by convention), each valued "login,display name,password".
type EnvProvider struct {
	Prefix string
}

func (p EnvProvider) Name() string { return "env:" + p.Prefix + "*" }

func (p EnvProvider) Credentials() ([]Credential, error) {
	var out []Credential
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, p.Prefix) {
			continue
		}
		parts := strings.Split(value, ",")
		if len(parts) != 3 {
			slog.Warn("Skipping malformed credential variable", "variable", key, "fields", len(parts))
			continue
		}
		out = append(out, Credential{
			Login:       strings.TrimSpace(parts[0]),
			DisplayName: strings.TrimSpace(parts[1]),
			Password:    parts[2],
		})
	}
	return out, nil
}

// FileProvider reads credentials from a YAML file with a top-level
// "users" list of {login, name, password} entries.
type FileProvider struct {
	Path string
}

func (p FileProvider) Name() string { return "file:" + p.Path }

func (p FileProvider) Credentials() ([]Credential, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var f struct {
		Users []Credential `yaml:"users"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	return f.Users, nil
}

// StaticProvider serves a fixed credential list, mainly for tests.
type StaticProvider struct {
	Source  string
	Entries []Credential
}

func (p StaticProvider) Name() string { return "static:" + p.Source }

func (p StaticProvider) Credentials() ([]Credential, error) { return p.Entries, nil }
